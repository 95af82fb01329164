// Package mcap simulates multi-cycle capacitated task assignment with
// rotational diversity.
//
// Every cycle a subset of tasks has to be assigned to a subset of capacity
// bounded agents. Besides the profit of an assignment, the simulator tracks
// per (task, agent) affinity counters that count the cycles since the pair was
// last used, so strategies can trade profit for a more even rotation of
// tasks across agents.
//
// # Quick Start
//
// Run a strategy over an instance file:
//
//	import (
//	    "github.com/HelgeS/mcap-rotational-diversity"
//	    "github.com/HelgeS/mcap-rotational-diversity/instance"
//	)
//
//	inst, err := instance.Load("instances/small.pl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := mcap.DefaultConfig()
//	cfg.Strategy.Kind = mcap.KindSwitch
//	s, err := mcap.NewStrategy(&cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sim, err := mcap.NewSimulator(&cfg, inst, s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, err := sim.Run(ctx)
//
// # Strategies
//
//   - profit: raw profits, ignores fairness
//   - affinity: raw affinity counters, ignores profit
//   - switch<T>: profit scores while the maximum pressure is below T, affinity scores otherwise
//   - productcomb: element-wise product of profit and affinity
//   - wppshared / wppind: blend of normalized profit and affinity
//   - oneswap<R> / exchange<R>: profit scores followed by a negotiation step that
//     swaps task pairs for affinity while keeping at least R percent of the profit
//
// Any strategy can be wrapped with the limited-assignment policy, which
// permanently removes recently used agents from a task.
//
// # Cycle
//
// The simulator walks through one phase per step of a cycle:
//
//	Idle → Scoring → Optimizing → Negotiating → Updating → Reporting → Idle
//
// Scoring refreshes profits and asks the strategy for scores, Optimizing runs
// the optimizer under the configured deadline, Negotiating runs the strategy's
// exchange step, Updating applies the affinity law and Reporting hands a
// CycleRecord to the configured sink, metrics and hooks.
//
// Records can be written as CSV or published to NATS JetStream, see the
// report package.
package mcap
