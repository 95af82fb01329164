package testutil

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/HelgeS/mcap-rotational-diversity/source"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// GenerateConfig sizes a generated schedule.
type GenerateConfig struct {
	// Seed makes the schedule reproducible
	Seed uint64

	// Tasks is the number of tasks (default: 8)
	Tasks int

	// Agents is the number of agents (default: 3)
	Agents int

	// Cycles is the number of cycles (default: 6)
	Cycles int
}

func (c *GenerateConfig) applyDefaults() {
	if c.Tasks <= 0 {
		c.Tasks = 8
	}
	if c.Agents <= 0 {
		c.Agents = 3
	}
	if c.Cycles <= 0 {
		c.Cycles = 6
	}
}

// GenerateSchedule builds a random schedule.
//
// Every agent is available in every cycle and every task is compatible with
// at least one agent, so each available task stays reachable even when agents
// are restricted. Weights are in [1, 5], profits in [5, 20] and capacities
// hold roughly half of the total weight.
//
// Parameters:
//   - t: testing handle
//   - cfg: schedule size and seed
//
// Returns:
//   - *source.Static: A fresh schedule with live tasks
//
// Example:
//
//	sched := testutil.GenerateSchedule(t, testutil.GenerateConfig{Seed: 7})
//	sim, err := mcap.NewSimulator(&cfg, sched, strat)
func GenerateSchedule(t *testing.T, cfg GenerateConfig) *source.Static {
	t.Helper()
	cfg.applyDefaults()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	agentIDs := make([]int, cfg.Agents)
	for i := range agentIDs {
		agentIDs[i] = i + 1
	}

	tasks := make([]*types.Task, 0, cfg.Tasks)
	var totalWeight int64
	for id := 1; id <= cfg.Tasks; id++ {
		perm := rng.Perm(cfg.Agents)
		n := 1 + rng.IntN(cfg.Agents)

		agents := make([]int, n)
		weights := make([]int64, n)
		profits := make([]int64, n)
		for i := range n {
			agents[i] = agentIDs[perm[i]]
			weights[i] = 1 + rng.Int64N(5)
			profits[i] = 5 + rng.Int64N(16)
			totalWeight += weights[i]
		}

		task, err := types.NewTask(id, weights, profits, agents)
		if err != nil {
			t.Fatalf("generate task %d: %v", id, err)
		}
		tasks = append(tasks, task)
	}

	capacity := max(totalWeight/int64(2*cfg.Agents), 5)
	agents := make([]types.Agent, cfg.Agents)
	for i, id := range agentIDs {
		agents[i] = types.Agent{ID: id, Capacity: capacity}
	}

	taskAvail := make([][]int, cfg.Cycles)
	agentAvail := make([][]int, cfg.Cycles)
	for c := range cfg.Cycles {
		for id := 1; id <= cfg.Tasks; id++ {
			if rng.IntN(4) > 0 {
				taskAvail[c] = append(taskAvail[c], id)
			}
		}
		agentAvail[c] = append([]int(nil), agentIDs...)
	}

	sched, err := source.NewStatic(fmt.Sprintf("generated-%d", cfg.Seed), tasks, agents, taskAvail, agentAvail)
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	return sched
}
