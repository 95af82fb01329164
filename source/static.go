package source

import (
	"fmt"
	"slices"
	"sync"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Static implements a schedule with a fixed set of tasks and agents.
//
// The availability lists are copied on every read. Tasks are handed out as
// the live objects the simulator mutates, so one Static serves one run; use
// Clone for another.
type Static struct {
	mu         sync.RWMutex
	name       string
	tasks      []*types.Task
	agents     []types.Agent
	taskAvail  [][]int
	agentAvail [][]int
}

var _ types.Schedule = (*Static)(nil)

// NewStatic creates a new static schedule.
//
// Parameters:
//   - name: Instance name used in records
//   - tasks: Tasks in declaration order
//   - agents: Agents in declaration order
//   - taskAvail: Available task ids per cycle, cycle 1 first
//   - agentAvail: Available agent ids per cycle, aligned with taskAvail
//
// Returns:
//   - *Static: Initialized schedule
//   - error: ErrInvalidSchedule, ErrInvalidAgent or ErrInvalidTask on inconsistent input
//
// Example:
//
//	t1, _ := types.NewTask(1, []int64{5, 5}, []int64{10, 1}, []int{1, 2})
//	src, err := source.NewStatic("demo", []*types.Task{t1},
//	    []types.Agent{{ID: 1, Capacity: 10}, {ID: 2, Capacity: 10}},
//	    [][]int{{1}, {1}}, [][]int{{1, 2}, {1, 2}})
func NewStatic(name string, tasks []*types.Task, agents []types.Agent, taskAvail, agentAvail [][]int) (*Static, error) {
	s := &Static{
		name:   name,
		tasks:  slices.Clone(tasks),
		agents: slices.Clone(agents),
	}
	if err := s.validateEntities(); err != nil {
		return nil, err
	}
	if len(taskAvail) != len(agentAvail) {
		return nil, fmt.Errorf("%w: %d task availability lists, %d agent availability lists",
			types.ErrInvalidSchedule, len(taskAvail), len(agentAvail))
	}
	for i := range taskAvail {
		if err := s.Append(taskAvail[i], agentAvail[i]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Static) validateEntities() error {
	agentIDs := make(types.AgentSet, len(s.agents))
	for _, a := range s.agents {
		if err := a.Validate(); err != nil {
			return err
		}
		if agentIDs.Allows(a.ID) {
			return fmt.Errorf("%w: agent %d declared twice", types.ErrInvalidAgent, a.ID)
		}
		agentIDs[a.ID] = struct{}{}
	}

	taskIDs := make(map[int]struct{}, len(s.tasks))
	for _, t := range s.tasks {
		if t == nil {
			return fmt.Errorf("%w: nil task", types.ErrInvalidTask)
		}
		if _, dup := taskIDs[t.ID()]; dup {
			return fmt.Errorf("%w: task %d declared twice", types.ErrInvalidTask, t.ID())
		}
		taskIDs[t.ID()] = struct{}{}

		for _, a := range t.Agents() {
			if !agentIDs.Allows(a) {
				return fmt.Errorf("%w: task %d lists undeclared agent %d", types.ErrInvalidTask, t.ID(), a)
			}
		}
	}

	return nil
}

// Name returns the instance name.
func (s *Static) Name() string {
	return s.name
}

// Tasks returns the live tasks in declaration order.
func (s *Static) Tasks() []*types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

// Agents returns the agents in declaration order.
func (s *Static) Agents() []types.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.agents)
}

// Cycles returns the number of cycles.
func (s *Static) Cycles() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.taskAvail)
}

// Availability returns copies of the task and agent ids available in a cycle.
//
// Parameters:
//   - cycle: 1-based cycle number
//
// Returns:
//   - tasks: Available task ids
//   - agents: Available agent ids
//   - error: ErrScheduleExhausted past the last cycle, ErrInvalidSchedule for cycle < 1
func (s *Static) Availability(cycle int) ([]int, []int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cycle < 1 {
		return nil, nil, fmt.Errorf("%w: cycle %d", types.ErrInvalidSchedule, cycle)
	}
	if cycle > len(s.taskAvail) {
		return nil, nil, fmt.Errorf("%w: cycle %d of %d", types.ErrScheduleExhausted, cycle, len(s.taskAvail))
	}

	return slices.Clone(s.taskAvail[cycle-1]), slices.Clone(s.agentAvail[cycle-1]), nil
}

// Append adds a cycle to the end of the schedule.
//
// This allows an embedding program to extend a run while it is in progress.
//
// Parameters:
//   - tasks: Task ids available in the new cycle
//   - agents: Agent ids available in the new cycle
//
// Returns:
//   - error: ErrInvalidSchedule if an id is unknown or listed twice
func (s *Static) Append(tasks, agents []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle := len(s.taskAvail) + 1

	known := make(map[int]struct{}, len(s.tasks))
	for _, t := range s.tasks {
		known[t.ID()] = struct{}{}
	}
	if err := checkIDs(cycle, "task", tasks, known); err != nil {
		return err
	}

	known = make(map[int]struct{}, len(s.agents))
	for _, a := range s.agents {
		known[a.ID] = struct{}{}
	}
	if err := checkIDs(cycle, "agent", agents, known); err != nil {
		return err
	}

	s.taskAvail = append(s.taskAvail, slices.Clone(tasks))
	s.agentAvail = append(s.agentAvail, slices.Clone(agents))

	return nil
}

func checkIDs(cycle int, kind string, ids []int, known map[int]struct{}) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: cycle %d lists unknown %s %d", types.ErrInvalidSchedule, cycle, kind, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: cycle %d lists %s %d twice", types.ErrInvalidSchedule, cycle, kind, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// Clone returns an independent schedule with deep-copied tasks.
func (s *Static) Clone() *Static {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &Static{
		name:       s.name,
		tasks:      make([]*types.Task, len(s.tasks)),
		agents:     slices.Clone(s.agents),
		taskAvail:  make([][]int, len(s.taskAvail)),
		agentAvail: make([][]int, len(s.agentAvail)),
	}
	for i, t := range s.tasks {
		out.tasks[i] = t.Clone()
	}
	for i := range s.taskAvail {
		out.taskAvail[i] = slices.Clone(s.taskAvail[i])
		out.agentAvail[i] = slices.Clone(s.agentAvail[i])
	}

	return out
}
