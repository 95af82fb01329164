package testutil

import (
	"testing"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// AssertRecordConsistent verifies that a cycle record describes a feasible
// assignment and that its derived columns agree with it.
//
// Parameters:
//   - t: testing handle
//   - rec: record to check
//   - tasks: every task of the instance
//   - agents: every agent of the instance
func AssertRecordConsistent(t *testing.T, rec *types.CycleRecord, tasks []*types.Task, agents []types.Agent) {
	t.Helper()

	if err := rec.Assignment.Validate(tasks, agents); err != nil {
		t.Fatalf("cycle %d: infeasible assignment: %v", rec.Cycle, err)
	}

	if len(rec.TaskAgents) != len(tasks) {
		t.Fatalf("cycle %d: %d task columns, want %d", rec.Cycle, len(rec.TaskAgents), len(tasks))
	}

	assigned := 0
	for id, agent := range rec.TaskAgents {
		if agent <= 0 {
			continue
		}
		assigned++
		if got, ok := rec.Assignment.AgentOf(id); !ok || got != agent {
			t.Fatalf("cycle %d: task %d reported at agent %d, assignment has %d", rec.Cycle, id, agent, got)
		}
	}
	if assigned != len(rec.Assignment.AssignedTasks()) {
		t.Fatalf("cycle %d: %d assigned columns, assignment holds %d tasks",
			rec.Cycle, assigned, len(rec.Assignment.AssignedTasks()))
	}

	if rec.Assigned < 0 || rec.Assigned > 1 {
		t.Fatalf("cycle %d: assigned ratio %v outside [0, 1]", rec.Cycle, rec.Assigned)
	}
	if rec.Utilization < 0 || rec.Utilization > 1 {
		t.Fatalf("cycle %d: utilization %v outside [0, 1]", rec.Cycle, rec.Utilization)
	}
	if rec.Profit < 0 || rec.Affinity < 0 {
		t.Fatalf("cycle %d: negative totals profit=%d affinity=%d", rec.Cycle, rec.Profit, rec.Affinity)
	}
	if rec.PressureMax < rec.PressureMean || rec.TotalPressureMax < rec.TotalPressureMean {
		t.Fatalf("cycle %d: pressure max below mean", rec.Cycle)
	}
}

// AssertAffinityCounters verifies the affinity law on live tasks: every
// visible counter is at least 1 and the agent of the last assignment sits at 1.
func AssertAffinityCounters(t *testing.T, tasks []*types.Task) {
	t.Helper()

	for _, task := range tasks {
		for _, agent := range task.Agents() {
			aff, ok := task.Affinity(agent)
			if ok && aff < 1 {
				t.Fatalf("task %d, agent %d: affinity %d below 1", task.ID(), agent, aff)
			}
		}

		history := task.History()
		if len(history) == 0 || history[len(history)-1] == types.Unassigned {
			continue
		}
		last := history[len(history)-1]
		if aff, ok := task.Affinity(last); ok && aff != 1 {
			t.Fatalf("task %d: last assigned agent %d has affinity %d, want 1", task.ID(), last, aff)
		}
	}
}
