package exchange

import (
	"slices"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// cell is one compatible (task, agent) pair. Agent 0 is the unassigned column.
type cell struct {
	agent    int
	affinity int64
	profit   int64
	weight   int64
}

// row holds the compatible cells of one task; cells[0] is always the
// unassigned column and cur points at the task's current agent.
type row struct {
	task  int
	cells []cell
	cur   int
}

func (r *row) find(agent int) (int, bool) {
	for i := range r.cells {
		if r.cells[i].agent == agent {
			return i, true
		}
	}

	return 0, false
}

func (r *row) agent() int {
	return r.cells[r.cur].agent
}

func (r *row) affinityDelta(pos int) int64 {
	return r.cells[pos].affinity - r.cells[r.cur].affinity
}

func (r *row) profitDelta(pos int) int64 {
	return r.cells[pos].profit - r.cells[r.cur].profit
}

// index is a sparse view of the cycle sized to the compatible-pair count.
type index struct {
	rows     []row
	agents   []int
	capacity map[int]int64
	load     map[int]int64
	holders  map[int][]int
}

// buildIndex validates X⁰ and lays it out as rows of compatible cells.
func buildIndex(in *types.ExchangeInput) (*index, error) {
	if err := in.Assignment.Validate(in.Tasks, in.Agents); err != nil {
		return nil, err
	}

	filter := types.AgentSetOf(in.Agents)
	byTask := in.Assignment.ByTask()

	ix := &index{
		rows:     make([]row, len(in.Tasks)),
		agents:   filter.IDs(),
		capacity: make(map[int]int64, len(in.Agents)),
		load:     make(map[int]int64, len(in.Agents)),
		holders:  make(map[int][]int),
	}
	for _, a := range in.Agents {
		ix.capacity[a.ID] = a.Capacity
	}

	for i, t := range in.Tasks {
		ids := t.CompatibleIn(filter)
		weights := t.WeightVector(filter)
		profits := t.ProfitVector(filter)
		affinities := t.AffinityVector(filter)

		r := row{task: t.ID(), cells: make([]cell, 1, len(ids)+1)}
		for j, a := range ids {
			r.cells = append(r.cells, cell{agent: a, affinity: affinities[j], profit: profits[j], weight: weights[j]})
		}

		if agent, ok := byTask[t.ID()]; ok {
			r.cur, _ = r.find(agent)
			ix.load[agent] += r.cells[r.cur].weight
			ix.holders[agent] = append(ix.holders[agent], i)
		}
		ix.rows[i] = r
	}

	return ix, nil
}

// totals returns profit and affinity of the current layout.
func (ix *index) totals() (profit, affinity int64) {
	for i := range ix.rows {
		c := ix.rows[i].cells[ix.rows[i].cur]
		profit += c.profit
		affinity += c.affinity
	}

	return profit, affinity
}

// fits reports whether replacing the weight out by in keeps the agent within capacity.
func (ix *index) fits(agent int, out, in int64) bool {
	if agent == types.Unassigned {
		return true
	}

	return ix.load[agent]-out+in <= ix.capacity[agent]
}

// move reassigns a row to the cell at pos and updates loads.
func (ix *index) move(r, pos int) {
	rw := &ix.rows[r]
	from := rw.cells[rw.cur]
	to := rw.cells[pos]
	if from.agent != types.Unassigned {
		ix.load[from.agent] -= from.weight
	}
	if to.agent != types.Unassigned {
		ix.load[to.agent] += to.weight
	}
	rw.cur = pos
}

// assignment converts the current layout back to agent → tasks.
func (ix *index) assignment() types.Assignment {
	out := make(types.Assignment)
	for i := range ix.rows {
		if a := ix.rows[i].agent(); a != types.Unassigned {
			out[a] = append(out[a], ix.rows[i].task)
		}
	}
	for a := range out {
		slices.Sort(out[a])
	}

	return out
}
