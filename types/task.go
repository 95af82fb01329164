package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Unassigned is the agent id recorded in a task's history for cycles in which
// the task was available but not assigned.
const Unassigned = 0

// BackupState tracks the one-shot profit backup taken on the first restriction.
type BackupState int

const (
	// BackupNormal means no backup is held.
	BackupNormal BackupState = iota
	// BackupPendingRestore means profits were snapshotted and will be restored
	// before the next profit update.
	BackupPendingRestore
)

// String returns the string representation of the backup state.
func (s BackupState) String() string {
	switch s {
	case BackupNormal:
		return "Normal"
	case BackupPendingRestore:
		return "PendingRestore"
	default:
		return "Unknown"
	}
}

// Task is a unit of work with per-agent weight, profit and affinity.
//
// The per-agent vectors are stored as an ordered map keyed by agent id:
// position i of every vector belongs to agents[i]. Restricted agents keep
// their slot but are invisible through every accessor, so weights, profits
// and affinities always expose the same key set.
//
// Task is not safe for concurrent use. The simulator owns all tasks for the
// duration of a cycle.
type Task struct {
	id         int
	agents     []int
	weights    []int64
	profits    []int64
	affinities []int64
	restricted []bool
	active     int

	history []int
	future  []int64

	backup      []int64
	backupState BackupState
}

// NewTask creates a task with every affinity counter set to 1.
//
// Parameters:
//   - id: Task identifier, unique within an instance
//   - weights: Resource consumption per compatible agent
//   - profits: Baseline profit per compatible agent
//   - agents: Compatible agent ids, in preference order
//
// Returns:
//   - *Task: The new task
//   - error: ErrInvalidTask if the vectors disagree in length or agents repeat
func NewTask(id int, weights, profits []int64, agents []int) (*Task, error) {
	if len(weights) != len(agents) || len(profits) != len(agents) {
		return nil, fmt.Errorf("%w: task %d has %d agents, %d weights, %d profits",
			ErrInvalidTask, id, len(agents), len(weights), len(profits))
	}

	seen := make(map[int]struct{}, len(agents))
	for _, a := range agents {
		if a <= 0 {
			return nil, fmt.Errorf("%w: task %d lists non-positive agent %d", ErrInvalidTask, id, a)
		}
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("%w: task %d lists agent %d twice", ErrInvalidTask, id, a)
		}
		seen[a] = struct{}{}
	}

	affinities := make([]int64, len(agents))
	for i := range affinities {
		affinities[i] = 1
	}

	return &Task{
		id:         id,
		agents:     slices.Clone(agents),
		weights:    slices.Clone(weights),
		profits:    slices.Clone(profits),
		affinities: affinities,
		restricted: make([]bool, len(agents)),
		active:     len(agents),
	}, nil
}

// ID returns the task identifier.
func (t *Task) ID() int {
	return t.id
}

func (t *Task) slot(agent int) (int, bool) {
	i := slices.Index(t.agents, agent)
	if i < 0 || t.restricted[i] {
		return 0, false
	}

	return i, true
}

// Agents returns the currently compatible agents in insertion order.
func (t *Task) Agents() []int {
	return t.CompatibleIn(nil)
}

// NumAgents returns the number of currently compatible agents.
func (t *Task) NumAgents() int {
	return t.active
}

// IsCompatible reports whether the agent is currently compatible with the task.
func (t *Task) IsCompatible(agent int) bool {
	_, ok := t.slot(agent)
	return ok
}

// CompatibleIn returns the compatible agents admitted by the filter, in
// insertion order. Every per-task vector handed to strategies, the optimizer
// and the exchange engine is aligned to this order.
func (t *Task) CompatibleIn(filter AgentSet) []int {
	out := make([]int, 0, t.active)
	for i, a := range t.agents {
		if !t.restricted[i] && filter.Allows(a) {
			out = append(out, a)
		}
	}

	return out
}

// Weight returns the weight for a compatible agent.
func (t *Task) Weight(agent int) (int64, bool) {
	i, ok := t.slot(agent)
	if !ok {
		return 0, false
	}

	return t.weights[i], true
}

// Profit returns the current-cycle profit for a compatible agent.
func (t *Task) Profit(agent int) (int64, bool) {
	i, ok := t.slot(agent)
	if !ok {
		return 0, false
	}

	return t.profits[i], true
}

// Affinity returns the affinity counter for a compatible agent.
func (t *Task) Affinity(agent int) (int64, bool) {
	i, ok := t.slot(agent)
	if !ok {
		return 0, false
	}

	return t.affinities[i], true
}

func (t *Task) vector(src []int64, filter AgentSet) []int64 {
	out := make([]int64, 0, t.active)
	for i, a := range t.agents {
		if !t.restricted[i] && filter.Allows(a) {
			out = append(out, src[i])
		}
	}

	return out
}

// WeightVector returns weights aligned to CompatibleIn(filter).
func (t *Task) WeightVector(filter AgentSet) []int64 {
	return t.vector(t.weights, filter)
}

// ProfitVector returns profits aligned to CompatibleIn(filter).
func (t *Task) ProfitVector(filter AgentSet) []int64 {
	return t.vector(t.profits, filter)
}

// AffinityVector returns affinity counters aligned to CompatibleIn(filter).
func (t *Task) AffinityVector(filter AgentSet) []int64 {
	return t.vector(t.affinities, filter)
}

// History returns the agents the task was assigned to, one entry per cycle in
// which the task was considered. Unassigned cycles record Unassigned.
func (t *Task) History() []int {
	return slices.Clone(t.history)
}

// AssignmentCount returns how many cycles the task was actually assigned.
func (t *Task) AssignmentCount() int {
	n := 0
	for _, a := range t.history {
		if a != Unassigned {
			n++
		}
	}

	return n
}

// EnqueueProfits appends per-cycle profit overrides to the future-profit queue.
func (t *Task) EnqueueProfits(profits ...int64) {
	t.future = append(t.future, profits...)
}

// PendingProfits returns the number of queued profit overrides.
func (t *Task) PendingProfits() int {
	return len(t.future)
}

// BackupState returns the state of the one-shot profit backup.
func (t *Task) BackupState() BackupState {
	return t.backupState
}

// Restricted returns the agents permanently removed from the compatible set.
func (t *Task) Restricted() []int {
	var out []int
	for i, a := range t.agents {
		if t.restricted[i] {
			out = append(out, a)
		}
	}

	return out
}

// Restrict permanently removes an agent from the compatible set.
//
// The first restriction snapshots the profit vector into the backup, moving
// the backup state to BackupPendingRestore. Restricting an already
// restricted agent is a no-op.
//
// Parameters:
//   - agent: Agent to remove
//
// Returns:
//   - error: ErrIncompatibleAgent for agents the task never listed,
//     ErrLastCompatibleAgent if the agent is the only one left
func (t *Task) Restrict(agent int) error {
	i := slices.Index(t.agents, agent)
	if i < 0 {
		return fmt.Errorf("%w: task %d, agent %d", ErrIncompatibleAgent, t.id, agent)
	}
	if t.restricted[i] {
		return nil
	}
	if t.active <= 1 {
		return fmt.Errorf("%w: task %d, agent %d", ErrLastCompatibleAgent, t.id, agent)
	}

	if t.backupState == BackupNormal {
		t.backup = slices.Clone(t.profits)
		t.backupState = BackupPendingRestore
	}
	t.restricted[i] = true
	t.active--

	return nil
}

// UpdateProfit prepares the profit vector for the next cycle.
//
// A pending backup is restored first (values only, restricted agents stay
// removed). Then the next queued override, if any, is consumed in FIFO order
// and applied to every compatible agent.
func (t *Task) UpdateProfit() {
	if t.backupState == BackupPendingRestore {
		for i := range t.profits {
			if !t.restricted[i] {
				t.profits[i] = t.backup[i]
			}
		}
		t.backup = nil
		t.backupState = BackupNormal
	}

	if len(t.future) == 0 {
		return
	}

	next := t.future[0]
	t.future = t.future[1:]
	for i := range t.profits {
		if !t.restricted[i] {
			t.profits[i] = next
		}
	}
}

// Update applies the affinity update law for one cycle.
//
// Every compatible agent admitted by considered has its counter incremented,
// except the assigned agent whose counter is reset to 1. The assigned agent
// (or Unassigned) is appended to the history.
//
// Parameters:
//   - assigned: Agent the task was assigned to, or Unassigned
//   - considered: Agents available this cycle (nil means all)
//
// Returns:
//   - error: ErrIncompatibleAgent if assigned is not a compatible agent
func (t *Task) Update(assigned int, considered AgentSet) error {
	pos := -1
	if assigned != Unassigned {
		i, ok := t.slot(assigned)
		if !ok {
			return fmt.Errorf("%w: task %d, agent %d", ErrIncompatibleAgent, t.id, assigned)
		}
		pos = i
	}

	for i, a := range t.agents {
		if t.restricted[i] || !considered.Allows(a) {
			continue
		}
		t.affinities[i]++
	}
	if pos >= 0 {
		t.affinities[pos] = 1
	}
	t.history = append(t.history, assigned)

	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	return &Task{
		id:          t.id,
		agents:      slices.Clone(t.agents),
		weights:     slices.Clone(t.weights),
		profits:     slices.Clone(t.profits),
		affinities:  slices.Clone(t.affinities),
		restricted:  slices.Clone(t.restricted),
		active:      t.active,
		history:     slices.Clone(t.history),
		future:      slices.Clone(t.future),
		backup:      slices.Clone(t.backup),
		backupState: t.backupState,
	}
}

// String renders the task's compatible view in the instance fact format.
func (t *Task) String() string {
	return fmt.Sprintf("task(%d,%s,%s,%s).", t.id,
		formatList(t.WeightVector(nil)), formatList(t.ProfitVector(nil)), formatList(t.Agents()))
}

func formatList[T int | int64](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// IndexTasks maps task ids to tasks.
func IndexTasks(tasks []*Task) map[int]*Task {
	m := make(map[int]*Task, len(tasks))
	for _, t := range tasks {
		m[t.id] = t
	}

	return m
}
