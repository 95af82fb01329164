package exchange

import (
	"cmp"
	"slices"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// candidate is a two-task swap: row src moves from sourceAgent to destAgent
// (cell srcPos) and row dst moves from destAgent to sourceAgent (cell dstPos).
type candidate struct {
	sourceAgent int
	src         int
	srcPos      int
	destAgent   int
	dst         int
	dstPos      int
	welfare     int64
	profit      int64
}

// candidates enumerates every welfare-improving swap against the current
// layout, sorted and without mirrored duplicates.
func (ix *index) candidates() []candidate {
	var out []candidate

	for _, g := range ix.agents {
		sources := ix.holders[g]
		if len(sources) == 0 {
			continue
		}

		for d := range ix.rows {
			dest := &ix.rows[d]
			gPos, ok := dest.find(g)
			if !ok || gPos == dest.cur {
				continue
			}
			gain := dest.affinityDelta(gPos)
			if gain <= 0 {
				continue
			}

			// Unassigned tasks never enter a swap.
			h := dest.agent()
			if h == types.Unassigned {
				continue
			}
			for _, s := range sources {
				src := &ix.rows[s]
				hPos, ok := src.find(h)
				if !ok {
					continue
				}
				back := src.affinityDelta(hPos)
				if back <= -gain {
					continue
				}

				out = append(out, candidate{
					sourceAgent: g,
					src:         s,
					srcPos:      hPos,
					destAgent:   h,
					dst:         d,
					dstPos:      gPos,
					welfare:     gain + back,
					profit:      dest.profitDelta(gPos) + src.profitDelta(hPos),
				})
			}
		}
	}

	slices.SortFunc(out, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(b.welfare, a.welfare),
			cmp.Compare(b.profit, a.profit),
			cmp.Compare(a.sourceAgent, b.sourceAgent),
			cmp.Compare(ix.rows[a.src].task, ix.rows[b.src].task),
			cmp.Compare(a.destAgent, b.destAgent),
			cmp.Compare(ix.rows[a.dst].task, ix.rows[b.dst].task),
		)
	})

	// (g, s, h, t') and (h, t', g, s) describe the same swap.
	seen := make(map[[2]int]struct{}, len(out))
	unique := out[:0]
	for _, c := range out {
		key := [2]int{min(c.src, c.dst), max(c.src, c.dst)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}

func (ix *index) swap(c candidate) types.Swap {
	return types.Swap{
		SourceAgent:  c.sourceAgent,
		SourceTask:   ix.rows[c.src].task,
		DestAgent:    c.destAgent,
		DestTask:     ix.rows[c.dst].task,
		Welfare:      c.welfare,
		ProfitChange: c.profit,
	}
}
