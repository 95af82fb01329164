// Package source provides built-in availability schedules.
//
// The package includes:
//
//   - Static: In-memory schedule built from tasks, agents and per-cycle availability
//
// Custom schedules can be implemented by satisfying the types.Schedule interface.
package source
