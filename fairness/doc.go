// Package fairness computes affinity pressure and related rotation metrics.
//
// All functions are pure: they read task affinity counters and never mutate
// them. An optional agent filter restricts every metric to the agents
// available in a cycle; a nil filter considers every compatible agent.
//
// Pressure of a task with C filtered compatible agents is
//
//	(Σ affinity − C·(C+1)/2) / C
//
// which is zero when the counters form a permutation of 1..C (a perfect
// rotation) and grows as some agents are left unused.
package fairness
