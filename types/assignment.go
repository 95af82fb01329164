package types

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Assignment maps agent ids to the ids of the tasks assigned to them for one cycle.
//
// Invariants checked by Validate:
//   - each task appears under at most one agent
//   - the assigned weight per agent does not exceed its capacity
//   - every (task, agent) pair is compatible
type Assignment map[int][]int

// AgentOf returns the agent a task is assigned to.
func (a Assignment) AgentOf(task int) (int, bool) {
	for agent, tasks := range a {
		if slices.Contains(tasks, task) {
			return agent, true
		}
	}

	return Unassigned, false
}

// ByTask inverts the assignment into task id -> agent id.
func (a Assignment) ByTask() map[int]int {
	out := make(map[int]int)
	for agent, tasks := range a {
		for _, t := range tasks {
			out[t] = agent
		}
	}

	return out
}

// Clone returns a deep copy.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for agent, tasks := range a {
		out[agent] = slices.Clone(tasks)
	}

	return out
}

// Normalize returns a copy with sorted task lists and no empty entries.
func (a Assignment) Normalize() Assignment {
	out := make(Assignment, len(a))
	for agent, tasks := range a {
		if len(tasks) == 0 {
			continue
		}
		sorted := slices.Clone(tasks)
		slices.Sort(sorted)
		out[agent] = sorted
	}

	return out
}

// Agents returns the agent ids holding at least one task, ascending.
func (a Assignment) Agents() []int {
	ids := make([]int, 0, len(a))
	for agent, tasks := range a {
		if len(tasks) > 0 {
			ids = append(ids, agent)
		}
	}
	slices.Sort(ids)

	return ids
}

// AssignedTasks returns every assigned task id, ascending.
func (a Assignment) AssignedTasks() []int {
	var ids []int
	for _, tasks := range a {
		ids = append(ids, tasks...)
	}
	slices.Sort(ids)

	return ids
}

// Len returns the number of assigned tasks.
func (a Assignment) Len() int {
	n := 0
	for _, tasks := range a {
		n += len(tasks)
	}

	return n
}

// Load returns the total weight assigned to an agent. Incompatible pairs count as zero.
func (a Assignment) Load(agent int, tasks map[int]*Task) int64 {
	var load int64
	for _, id := range a[agent] {
		if t, ok := tasks[id]; ok {
			w, _ := t.Weight(agent)
			load += w
		}
	}

	return load
}

// Profit returns the total current-cycle profit of the assignment.
func (a Assignment) Profit(tasks []*Task) int64 {
	p, _ := a.Totals(tasks)
	return p
}

// Affinity returns the total affinity of the assignment.
func (a Assignment) Affinity(tasks []*Task) int64 {
	_, aff := a.Totals(tasks)
	return aff
}

// Totals returns the total profit and affinity of the assignment.
// Unknown tasks and incompatible pairs contribute nothing.
func (a Assignment) Totals(tasks []*Task) (profit, affinity int64) {
	index := IndexTasks(tasks)
	for agent, ids := range a {
		for _, id := range ids {
			t, ok := index[id]
			if !ok {
				continue
			}
			p, _ := t.Profit(agent)
			f, _ := t.Affinity(agent)
			profit += p
			affinity += f
		}
	}

	return profit, affinity
}

// Validate checks the assignment invariants against tasks and agents.
//
// Parameters:
//   - tasks: Tasks that may appear in the assignment
//   - agents: Agents that may appear in the assignment, with their capacities
//
// Returns:
//   - error: nil if every invariant holds; otherwise an error wrapping
//     ErrInvariantViolation and the specific cause
func (a Assignment) Validate(tasks []*Task, agents []Agent) error {
	taskIndex := IndexTasks(tasks)
	capacity := make(map[int]int64, len(agents))
	for _, ag := range agents {
		capacity[ag.ID] = ag.Capacity
	}

	seen := make(map[int]int)
	for _, agent := range slices.Sorted(maps.Keys(a)) {
		ids := a[agent]
		if len(ids) == 0 {
			continue
		}
		limit, ok := capacity[agent]
		if !ok {
			return fmt.Errorf("%w: %w: agent %d", ErrInvariantViolation, ErrUnknownAgent, agent)
		}

		var load int64
		for _, id := range ids {
			t, ok := taskIndex[id]
			if !ok {
				return fmt.Errorf("%w: %w: task %d at agent %d", ErrInvariantViolation, ErrUnknownTask, id, agent)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: %w: task %d at agents %d and %d",
					ErrInvariantViolation, ErrDuplicateAssignment, id, prev, agent)
			}
			seen[id] = agent

			w, ok := t.Weight(agent)
			if !ok {
				return fmt.Errorf("%w: %w: task %d, agent %d", ErrInvariantViolation, ErrIncompatibleAgent, id, agent)
			}
			load += w
		}

		if load > limit {
			return fmt.Errorf("%w: %w: agent %d load %d > capacity %d",
				ErrInvariantViolation, ErrCapacityExceeded, agent, load, limit)
		}
	}

	return nil
}

// String renders the assignment as instance fact records, one per agent.
func (a Assignment) String() string {
	norm := a.Normalize()
	lines := make([]string, 0, len(norm))
	for _, agent := range norm.Agents() {
		lines = append(lines, fmt.Sprintf("assignment(%d,%s).", agent, formatList(norm[agent])))
	}

	return strings.Join(lines, "\n")
}
