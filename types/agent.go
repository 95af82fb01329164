package types

import (
	"fmt"
	"slices"
)

// Agent is a capacity-bounded resource that tasks are assigned to.
//
// Agent ids are positive; id 0 is reserved for the virtual "unassigned" agent
// used by the exchange engine.
type Agent struct {
	ID       int   `json:"id"`
	Capacity int64 `json:"capacity"`
}

// Validate checks the agent's id and capacity.
func (a Agent) Validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("%w: id %d must be positive", ErrInvalidAgent, a.ID)
	}
	if a.Capacity <= 0 {
		return fmt.Errorf("%w: agent %d capacity %d must be positive", ErrInvalidAgent, a.ID, a.Capacity)
	}

	return nil
}

// String renders the agent in the instance fact format.
func (a Agent) String() string {
	return fmt.Sprintf("agent(%d,%d).", a.ID, a.Capacity)
}

// AgentSet is a set of agent ids.
//
// A nil AgentSet means "every agent" when used as a filter, while an empty
// non-nil set admits no agent.
type AgentSet map[int]struct{}

// NewAgentSet builds a set from agent ids.
func NewAgentSet(ids ...int) AgentSet {
	s := make(AgentSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// AgentSetOf builds a set from the ids of the given agents.
func AgentSetOf(agents []Agent) AgentSet {
	s := make(AgentSet, len(agents))
	for _, a := range agents {
		s[a.ID] = struct{}{}
	}

	return s
}

// Allows reports whether the filter admits the agent. A nil set admits every agent.
func (s AgentSet) Allows(id int) bool {
	if s == nil {
		return true
	}
	_, ok := s[id]

	return ok
}

// IDs returns the set members in ascending order.
func (s AgentSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
