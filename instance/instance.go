package instance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HelgeS/mcap-rotational-diversity/source"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Instance is a parsed instance description.
//
// It is a types.Schedule through the embedded source.Static. The tasks it
// hands out are live and belong to a single run.
type Instance struct {
	*source.Static

	profits     [][]int64
	assignments types.Assignment
}

// Assignments returns the assignment facts of the file, if any.
func (i *Instance) Assignments() types.Assignment {
	return i.assignments.Clone()
}

// Clone returns an independent copy with fresh task state.
func (i *Instance) Clone() *Instance {
	profits := make([][]int64, len(i.profits))
	for k, p := range i.profits {
		profits[k] = append([]int64(nil), p...)
	}

	return &Instance{
		Static:      i.Static.Clone(),
		profits:     profits,
		assignments: i.assignments.Clone(),
	}
}

// Stats summarizes an instance.
type Stats struct {
	Name      string
	Tasks     int
	Agents    int
	Cycles    int
	Capacity  int64
	Weight    int64   // sum over tasks of the smallest compatible weight
	Compat    float64 // mean number of compatible agents per task
	MeanTasks float64 // mean available tasks per cycle
	Overrides bool    // profit overrides present
}

// Stats computes summary statistics.
func (i *Instance) Stats() Stats {
	tasks := i.Tasks()
	agents := i.Agents()

	s := Stats{
		Name:      i.Name(),
		Tasks:     len(tasks),
		Agents:    len(agents),
		Cycles:    i.Cycles(),
		Overrides: len(i.profits) > 0,
	}
	for _, a := range agents {
		s.Capacity += a.Capacity
	}

	compat := 0
	for _, t := range tasks {
		compat += t.NumAgents()
		weights := t.WeightVector(nil)
		if len(weights) > 0 {
			s.Weight += minOf(weights)
		}
	}
	if len(tasks) > 0 {
		s.Compat = float64(compat) / float64(len(tasks))
	}

	available := 0
	for c := 1; c <= s.Cycles; c++ {
		ids, _, err := i.Availability(c)
		if err != nil {
			break
		}
		available += len(ids)
	}
	if s.Cycles > 0 {
		s.MeanTasks = float64(available) / float64(s.Cycles)
	}

	return s
}

func minOf(values []int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		m = min(m, v)
	}

	return m
}

// String renders the instance in the fact format. Parse(name, String())
// yields an equivalent instance as long as no cycle has run.
func (i *Instance) String() string {
	var b strings.Builder

	for _, a := range i.Agents() {
		b.WriteString(a.String())
		b.WriteByte('\n')
	}
	for _, t := range i.Tasks() {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	for c := 1; c <= i.Cycles(); c++ {
		tasks, agents, err := i.Availability(c)
		if err != nil {
			break
		}
		fmt.Fprintf(&b, "taskavail(%d,%s).\n", c, ints(tasks))
		fmt.Fprintf(&b, "agentavail(%d,%s).\n", c, ints(agents))
	}
	for k, p := range i.profits {
		parts := make([]string, len(p))
		for j, v := range p {
			parts[j] = strconv.FormatInt(v, 10)
		}
		fmt.Fprintf(&b, "profit(%d,[%s]).\n", k+2, strings.Join(parts, ","))
	}
	if len(i.assignments) > 0 {
		b.WriteString(i.assignments.String())
		b.WriteByte('\n')
	}

	return b.String()
}

func ints(ids []int) string {
	parts := make([]string, len(ids))
	for j, id := range ids {
		parts[j] = strconv.Itoa(id)
	}

	return "[" + strings.Join(parts, ",") + "]"
}
