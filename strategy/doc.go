// Package strategy provides the built-in scoring strategies.
//
// A scoring strategy turns the current task state into one score vector per
// task, aligned to the task's compatible agents that are available in the
// cycle. The optimizer maximizes the sum of selected scores.
//
//   - Profit: Raw profits, ignores fairness
//   - Affinity: Raw affinity counters, maximal rotation
//   - Switch: Profit below a pressure threshold, affinity above it
//   - ProductCombination: Element-wise profit × affinity
//   - WeightedPartialProfits: Blend of normalized profit and affinity
//   - LimitedAssignment: Decorator that permanently restricts recently used agents
//   - Negotiation: Profit scoring followed by an exchange step
//
// # Strategy Selection Guide
//
// Switch:
//   - Use when profit matters most until fairness degrades visibly
//   - Configuration: pressure threshold
//
// WeightedPartialProfits:
//   - Use for a smooth trade-off that tightens as counters grow
//   - Shared weight: one blend for the whole cycle
//   - Individual weights: one blend per task
//
// Negotiation:
//   - Use when the profit-optimal assignment should only be perturbed slightly
//   - Configuration: the exchanger and its acceptance ratio
//
// Custom strategies can be implemented by satisfying the types.Strategy interface.
package strategy
