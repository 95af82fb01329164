// Package optimizer provides native implementations of the optimizer and
// selection capabilities.
//
// Greedy is a deterministic density-ordered heuristic for the multiple
// knapsack / generalized assignment problem handed over by the simulator. It
// returns a feasible, not necessarily optimal, assignment.
//
// BranchAndBound solves the exchange selection problem exactly by
// depth-first include/exclude search with a welfare upper bound. A node
// limit and the context deadline turn it into an anytime search that
// returns the best selection found so far.
package optimizer
