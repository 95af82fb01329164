// Package exchange implements the post-optimization negotiation engine.
//
// Given a feasible assignment X⁰ with profit O⁰, the engine looks for
// two-task swaps between agents that raise total affinity (welfare) while
// keeping the profit at or above ⌊O⁰·r⌋ for an acceptance ratio r ∈ (0, 1].
//
// A candidate swap (g, s, h, t') moves task t' from agent h to agent g and
// task s from g to h, where
//
//	ΔA[t', g] > 0             t' gains affinity at g
//	ΔA[s, h]  > −ΔA[t', g]    the pair as a whole gains welfare
//
// with ΔA[i, c] = A[i, c] − A[i, cur(i)]. Agent 0 is a virtual unassigned
// agent with unlimited capacity, compatible with every task and carrying
// zero affinity, profit and weight, so an unassigned task can be swapped in
// for an assigned one.
//
// Candidates are ordered by welfare descending, then profit change descending
// (least profit loss first), then source agent, source task, destination
// agent and destination task ascending.
//
// Two engines are provided:
//   - Greedy: a single pass applying every candidate that still fits
//   - Solver: hands the candidate set to a types.Selector as linked move pairs
//
// Both re-validate their result. A violated invariant is returned as an error
// wrapping types.ErrInvariantViolation and must abort the run.
package exchange
