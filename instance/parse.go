package instance

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/HelgeS/mcap-rotational-diversity/source"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

const maxLineSize = 16 * 1024 * 1024

var (
	taskPattern       = regexp.MustCompile(`^task\((\d+),\[([\d,]*)\],\[([\d,]*)\],\[([\d,]*)\]\)\.?$`)
	agentPattern      = regexp.MustCompile(`^agent\((\d+),(\d+)\)\.?$`)
	availPattern      = regexp.MustCompile(`^(task|agent)avail\((\d+),\[([\d,]*)\]\)\.?$`)
	profitPattern     = regexp.MustCompile(`^profit\((\d+),\[([\d,]*)\]\)\.?$`)
	assignmentPattern = regexp.MustCompile(`^assignment\((\d+),\[([\d,]*)\]\)\.?$`)
)

// parser accumulates facts in file order.
type parser struct {
	tasks       []*types.Task
	agents      []types.Agent
	taskAvail   map[int][]int
	agentAvail  map[int][]int
	profits     map[int][]int64
	assignments types.Assignment
}

// Load reads an instance file. The instance name is the file name without
// its extension.
//
// Parameters:
//   - path: Instance file path
//
// Returns:
//   - *Instance: The parsed instance
//   - error: I/O errors, or ErrMalformedInstance with the offending line
//
// Example:
//
//	inst, err := instance.Load("instances/small_01.pl")
//	sim, err := mcap.NewSimulator(cfg, inst, strat)
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer f.Close()

	return Parse(nameOf(path), f)
}

func nameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads an instance description from r.
//
// Parameters:
//   - name: Instance name used in records
//   - r: Fact stream
//
// Returns:
//   - *Instance: The parsed instance; nothing partial is returned on error
//   - error: ErrMalformedInstance with the offending line number
func Parse(name string, r io.Reader) (*Instance, error) {
	p := &parser{
		taskAvail:   make(map[int][]int),
		agentAvail:  make(map[int][]int),
		profits:     make(map[int][]int64),
		assignments: make(types.Assignment),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.line(scanner.Text()); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", types.ErrMalformedInstance, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", types.ErrMalformedInstance, lineNo+1, err)
	}

	inst, err := p.build(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedInstance, err)
	}

	return inst, nil
}

func (p *parser) line(raw string) error {
	line := strings.Join(strings.Fields(raw), "")
	if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
		return nil
	}

	if m := taskPattern.FindStringSubmatch(line); m != nil {
		return p.task(m)
	}
	if m := agentPattern.FindStringSubmatch(line); m != nil {
		return p.agent(m)
	}
	if m := availPattern.FindStringSubmatch(line); m != nil {
		return p.avail(m)
	}
	if m := profitPattern.FindStringSubmatch(line); m != nil {
		return p.profit(m)
	}
	if m := assignmentPattern.FindStringSubmatch(line); m != nil {
		return p.assignment(m)
	}

	return fmt.Errorf("unrecognized fact %q", raw)
}

func (p *parser) task(m []string) error {
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return err
	}
	weights, err := parseList(m[2])
	if err != nil {
		return fmt.Errorf("task %d weights: %w", id, err)
	}
	profits, err := parseList(m[3])
	if err != nil {
		return fmt.Errorf("task %d profits: %w", id, err)
	}
	agents, err := parseIDs(m[4])
	if err != nil {
		return fmt.Errorf("task %d agents: %w", id, err)
	}
	if len(agents) == 0 {
		return fmt.Errorf("task %d has no compatible agent", id)
	}
	for _, t := range p.tasks {
		if t.ID() == id {
			return fmt.Errorf("task %d declared twice", id)
		}
	}

	t, err := types.NewTask(id, weights, profits, agents)
	if err != nil {
		return err
	}
	p.tasks = append(p.tasks, t)

	return nil
}

func (p *parser) agent(m []string) error {
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return err
	}
	capacity, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return err
	}

	a := types.Agent{ID: id, Capacity: capacity}
	if err := a.Validate(); err != nil {
		return err
	}
	for _, other := range p.agents {
		if other.ID == id {
			return fmt.Errorf("agent %d declared twice", id)
		}
	}
	p.agents = append(p.agents, a)

	return nil
}

func (p *parser) avail(m []string) error {
	cycle, err := parseCycle(m[2])
	if err != nil {
		return err
	}
	ids, err := parseIDs(m[3])
	if err != nil {
		return fmt.Errorf("%savail cycle %d: %w", m[1], cycle, err)
	}

	target := p.taskAvail
	if m[1] == "agent" {
		target = p.agentAvail
	}
	if _, dup := target[cycle]; dup {
		return fmt.Errorf("%savail for cycle %d given twice", m[1], cycle)
	}
	target[cycle] = ids

	return nil
}

func (p *parser) profit(m []string) error {
	cycle, err := parseCycle(m[1])
	if err != nil {
		return err
	}
	if cycle < 2 {
		return fmt.Errorf("profit override for cycle %d, overrides start at cycle 2", cycle)
	}
	values, err := parseList(m[2])
	if err != nil {
		return fmt.Errorf("profit cycle %d: %w", cycle, err)
	}
	if _, dup := p.profits[cycle]; dup {
		return fmt.Errorf("profit for cycle %d given twice", cycle)
	}
	p.profits[cycle] = values

	return nil
}

func (p *parser) assignment(m []string) error {
	agent, err := strconv.Atoi(m[1])
	if err != nil {
		return err
	}
	tasks, err := parseIDs(m[2])
	if err != nil {
		return fmt.Errorf("assignment of agent %d: %w", agent, err)
	}
	if _, dup := p.assignments[agent]; dup {
		return fmt.Errorf("assignment for agent %d given twice", agent)
	}
	p.assignments[agent] = tasks

	return nil
}

// build cross-checks the facts and assembles the instance.
func (p *parser) build(name string) (*Instance, error) {
	taskAvail, err := contiguous("taskavail", p.taskAvail)
	if err != nil {
		return nil, err
	}
	agentAvail, err := contiguous("agentavail", p.agentAvail)
	if err != nil {
		return nil, err
	}
	if len(taskAvail) != len(agentAvail) {
		return nil, fmt.Errorf("%d taskavail cycles but %d agentavail cycles", len(taskAvail), len(agentAvail))
	}

	var profits [][]int64
	if len(p.profits) > 0 {
		if len(p.profits) != len(taskAvail)-1 {
			return nil, fmt.Errorf("%d profit overrides for %d cycles, expected %d",
				len(p.profits), len(taskAvail), len(taskAvail)-1)
		}
		for _, cycle := range slices.Sorted(maps.Keys(p.profits)) {
			if cycle > len(taskAvail) {
				return nil, fmt.Errorf("profit override for cycle %d beyond last cycle %d", cycle, len(taskAvail))
			}
			values := p.profits[cycle]
			if len(values) != len(p.tasks) {
				return nil, fmt.Errorf("profit cycle %d has %d values for %d tasks", cycle, len(values), len(p.tasks))
			}
			profits = append(profits, values)
		}
		for i, t := range p.tasks {
			for _, values := range profits {
				t.EnqueueProfits(values[i])
			}
		}
	}

	static, err := source.NewStatic(name, p.tasks, p.agents, taskAvail, agentAvail)
	if err != nil {
		return nil, err
	}

	if len(p.assignments) > 0 {
		if err := p.assignments.Validate(p.tasks, p.agents); err != nil {
			return nil, err
		}
	}

	return &Instance{
		Static:      static,
		profits:     profits,
		assignments: p.assignments.Normalize(),
	}, nil
}

// contiguous orders the per-cycle lists and requires cycles 1..n.
func contiguous(kind string, byCycle map[int][]int) ([][]int, error) {
	out := make([][]int, 0, len(byCycle))
	for i, cycle := range slices.Sorted(maps.Keys(byCycle)) {
		if cycle != i+1 {
			return nil, fmt.Errorf("%s cycles must run from 1 without gaps, missing cycle %d", kind, i+1)
		}
		out = append(out, byCycle[cycle])
	}

	return out, nil
}

func parseCycle(s string) (int, error) {
	cycle, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if cycle < 1 {
		return 0, fmt.Errorf("cycle %d must be at least 1", cycle)
	}

	return cycle, nil
}

func parseList(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i+1, err)
		}
		out[i] = v
	}

	return out, nil
}

func parseIDs(s string) ([]int, error) {
	values, err := parseList(s)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}

	return out, nil
}
