package types

// Schedule is a static instance: the tasks and agents of a run plus the
// per-cycle availability.
//
// Tasks returns the live task objects. The simulator mutates them, so a
// schedule must hand out tasks owned by exactly one simulator.
type Schedule interface {
	// Name identifies the instance in records.
	Name() string

	// Tasks returns every task of the instance in declaration order.
	Tasks() []*Task

	// Agents returns every agent of the instance in declaration order.
	Agents() []Agent

	// Cycles returns the number of cycles in the schedule.
	Cycles() int

	// Availability returns the task and agent ids available in a 1-based cycle.
	Availability(cycle int) (tasks []int, agents []int, err error)
}
