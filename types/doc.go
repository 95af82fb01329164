// Package types provides core type definitions and interfaces for the mcap library.
//
// This package contains shared types used across the fairness, strategy,
// exchange and optimizer packages and the root simulator. Keeping them in a
// separate package avoids import cycles.
//
// Key types:
//   - Task: Per-agent weight, profit and affinity bookkeeping
//   - Agent: Capacity-bounded resource
//   - Assignment: Per-cycle agent → tasks mapping with invariant checks
//   - Strategy, Exchanger, Optimizer, Selector: Pluggable capabilities
//   - Logger, MetricsCollector: Observability interfaces
package types
