package mcap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HelgeS/mcap-rotational-diversity/fairness"
	"github.com/HelgeS/mcap-rotational-diversity/internal/hooks"
	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/internal/metrics"
	"github.com/HelgeS/mcap-rotational-diversity/optimizer"
	"github.com/HelgeS/mcap-rotational-diversity/report"
	"github.com/HelgeS/mcap-rotational-diversity/strategy"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Simulator drives a multi-cycle assignment run over a schedule.
//
// Every cycle walks through the phases
//
//	Idle → Scoring → Optimizing → Negotiating → Updating → Reporting → Idle
//
// and the simulator enters Done after the last cycle of the schedule.
//
// Cycles are strictly sequential because scores depend on the affinity
// counters left by every previous cycle. The simulator owns the schedule's
// tasks for the duration of the run and mutates them in place.
//
// Thread Safety:
//   - A Simulator must be used from a single goroutine
//
// Lifecycle:
//   - Create with NewSimulator()
//   - Call Step() per cycle or Run() for the whole schedule
type Simulator struct {
	cfg      Config
	schedule Schedule
	strategy Strategy

	// Optional dependencies
	optimizer Optimizer
	sink      RecordSink
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	runID     string

	tasks  []*Task
	index  map[int]*Task
	agents map[int]Agent

	cycle      int
	phase      Phase
	phaseStart time.Time
	// failed holds the error that aborted the run.
	failed error
}

// NewSimulator creates a simulator for one run.
//
// Parameters:
//   - cfg: Run configuration (nil selects DefaultConfig)
//   - schedule: Tasks, agents and per-cycle availability
//   - strategy: Scoring strategy (see NewStrategy)
//   - opts: Optional configuration (optimizer, sink, hooks, metrics, logger, run id)
//
// Returns:
//   - *Simulator: Simulator positioned before the first cycle
//   - error: ErrScheduleRequired, ErrStrategyRequired or ErrInvalidConfig
//
// Example:
//
//	inst, _ := instance.Load("small.pl")
//	cfg := mcap.DefaultConfig()
//	s, _ := mcap.NewStrategy(&cfg, nil)
//	sim, _ := mcap.NewSimulator(&cfg, inst, s)
//	records, err := sim.Run(ctx)
func NewSimulator(cfg *Config, schedule Schedule, strategy Strategy, opts ...Option) (*Simulator, error) {
	if schedule == nil {
		return nil, ErrScheduleRequired
	}
	if strategy == nil {
		return nil, ErrStrategyRequired
	}

	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
		ApplyDefaults(&c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := &simulatorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	opt := options.optimizer
	if opt == nil {
		opt = optimizer.NewGreedy(optimizer.WithLogger(loggerInstance))
	}

	sink := options.sink
	if sink == nil {
		sink = report.MultiSink{}
	}

	runID := options.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	tasks := schedule.Tasks()
	agents := make(map[int]Agent)
	for _, a := range schedule.Agents() {
		agents[a.ID] = a
	}

	return &Simulator{
		cfg:        c,
		schedule:   schedule,
		strategy:   strategy,
		optimizer:  opt,
		sink:       sink,
		hooks:      hooks.Fill(options.hooks),
		metrics:    metricsCollector,
		logger:     loggerInstance,
		runID:      runID,
		tasks:      tasks,
		index:      types.IndexTasks(tasks),
		agents:     agents,
		phase:      PhaseIdle,
		phaseStart: time.Now(),
	}, nil
}

// RunID returns the id stamped on every record of this run.
func (s *Simulator) RunID() string {
	return s.runID
}

// Phase returns the current phase.
func (s *Simulator) Phase() Phase {
	return s.phase
}

// Cycle returns the number of completed cycles.
func (s *Simulator) Cycle() int {
	return s.cycle
}

// Run simulates every remaining cycle of the schedule.
//
// The context is checked between cycles. An aborted run returns the records
// of the cycles completed so far together with the error.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []*CycleRecord: One record per completed cycle
//   - error: First cycle error or context error
func (s *Simulator) Run(ctx context.Context) ([]*CycleRecord, error) {
	records := make([]*CycleRecord, 0, s.schedule.Cycles()-s.cycle)
	for {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec, err := s.Step(ctx)
		if errors.Is(err, ErrScheduleExhausted) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Step simulates the next cycle.
//
// Parameters:
//   - ctx: Context handed to the optimizer and the exchange step
//
// Returns:
//   - *CycleRecord: The emitted record
//   - error: ErrScheduleExhausted after the last cycle; any other error is
//     fatal for the run
func (s *Simulator) Step(ctx context.Context) (*CycleRecord, error) {
	if s.failed != nil {
		return nil, fmt.Errorf("run aborted: %w", s.failed)
	}
	if s.phase == PhaseDone {
		return nil, ErrScheduleExhausted
	}

	cycle := s.cycle + 1
	if cycle > s.schedule.Cycles() {
		s.transition(PhaseDone)
		return nil, ErrScheduleExhausted
	}

	rec, err := s.step(ctx, cycle)
	if err != nil {
		s.logger.Error("cycle failed", "cycle", cycle, "phase", s.phase.String(), "error", err)
		s.failed = fmt.Errorf("cycle %d: %w", cycle, err)

		return nil, s.failed
	}

	s.cycle = cycle
	if cycle == s.schedule.Cycles() {
		s.transition(PhaseDone)
	} else {
		s.transition(PhaseIdle)
	}

	return rec, nil
}

func (s *Simulator) step(ctx context.Context, cycle int) (*CycleRecord, error) {
	tasks, agents, err := s.available(cycle)
	if err != nil {
		return nil, err
	}
	filter := types.AgentSetOf(agents)

	// Step 1-3: refresh profits, check reachability, score.
	s.transition(PhaseScoring)
	for _, t := range tasks {
		t.UpdateProfit()
	}
	for _, t := range tasks {
		if len(t.CompatibleIn(filter)) == 0 {
			return nil, fmt.Errorf("%w: task %d", ErrUnreachableTask, t.ID())
		}
	}

	scores, err := s.strategy.Profits(tasks, agents)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.strategy.Name(), err)
	}
	problem, err := types.NewProblem(tasks, agents, scores)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.strategy.Name(), err)
	}

	// Step 4: initial assignment.
	s.transition(PhaseOptimizing)
	sol, err := s.solve(ctx, cycle, problem)
	if err != nil {
		return nil, err
	}
	if err := sol.Assignment.Validate(tasks, agents); err != nil {
		return nil, fmt.Errorf("optimizer assignment: %w", err)
	}

	// Step 5: negotiation.
	s.transition(PhaseNegotiating)
	res, err := s.strategy.Exchange(ctx, &ExchangeInput{
		Tasks:      tasks,
		Agents:     agents,
		Assignment: sol.Assignment,
		Objective:  sol.Objective,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}
	if err := res.Assignment.Validate(tasks, agents); err != nil {
		return nil, fmt.Errorf("exchange assignment: %w", err)
	}
	if strategy.Negotiates(s.strategy) {
		s.metrics.RecordExchange(s.strategy.Name(), res.Stats, len(res.Swaps))
	}
	if len(res.Swaps) > 0 {
		if err := s.hooks.OnExchangeApplied(ctx, cycle, res.Swaps); err != nil {
			s.logger.Error("exchange hook error", "cycle", cycle, "error", err)
		}
	}

	// Totals are read before the counters move.
	final := res.Assignment.Normalize()
	rec := s.newRecord(cycle, tasks, agents, final)
	rec.Objective = res.Objective
	rec.SolveDuration = sol.Duration
	rec.TimedOut = sol.TimedOut
	rec.Swaps = len(res.Swaps)
	rec.WelfareGain = res.Stats.WelfareGain

	// Step 6: affinity updates.
	s.transition(PhaseUpdating)
	byTask := final.ByTask()
	for _, t := range tasks {
		if err := t.Update(byTask[t.ID()], filter); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
		}
	}

	// Step 7: report.
	s.transition(PhaseReporting)
	if err := s.pressures(rec, tasks, filter); err != nil {
		return nil, err
	}
	if err := s.sink.Write(ctx, rec); err != nil {
		return nil, fmt.Errorf("write record: %w", err)
	}
	s.metrics.RecordCycle(rec)
	if err := s.hooks.OnCycleCompleted(ctx, rec); err != nil {
		s.logger.Error("cycle hook error", "cycle", cycle, "error", err)
	}

	s.logger.Info("cycle completed",
		"cycle", cycle,
		"strategy", rec.Strategy,
		"mode", rec.Mode,
		"objective", rec.Objective,
		"profit", rec.Profit,
		"affinity", rec.Affinity,
		"pressure_max", rec.PressureMax,
		"swaps", rec.Swaps,
	)

	return rec, nil
}

// available resolves the cycle's availability lists.
func (s *Simulator) available(cycle int) ([]*Task, []Agent, error) {
	taskIDs, agentIDs, err := s.schedule.Availability(cycle)
	if err != nil {
		return nil, nil, err
	}

	// An id may appear at most once per cycle.
	seenTasks := make(map[int]struct{}, len(taskIDs))
	tasks := make([]*Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		t, ok := s.index[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %w: task %d", types.ErrInvalidSchedule, types.ErrUnknownTask, id)
		}
		if _, dup := seenTasks[id]; dup {
			return nil, nil, fmt.Errorf("%w: task %d listed twice in cycle %d", types.ErrInvalidSchedule, id, cycle)
		}
		seenTasks[id] = struct{}{}
		tasks = append(tasks, t)
	}

	seenAgents := make(map[int]struct{}, len(agentIDs))
	agents := make([]Agent, 0, len(agentIDs))
	for _, id := range agentIDs {
		a, ok := s.agents[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %w: agent %d", types.ErrInvalidSchedule, types.ErrUnknownAgent, id)
		}
		if _, dup := seenAgents[id]; dup {
			return nil, nil, fmt.Errorf("%w: agent %d listed twice in cycle %d", types.ErrInvalidSchedule, id, cycle)
		}
		seenAgents[id] = struct{}{}
		agents = append(agents, a)
	}

	return tasks, agents, nil
}

// solve runs the optimizer under the configured deadline. A timed-out solve
// is logged and its best-known assignment is used.
func (s *Simulator) solve(ctx context.Context, cycle int, p *Problem) (*Solution, error) {
	solveCtx, cancel := context.WithTimeout(ctx, s.cfg.Solver.Timeout)
	defer cancel()

	start := time.Now()
	sol, err := s.optimizer.Optimize(solveCtx, p)
	if err != nil {
		if errors.Is(err, ErrOptimizerFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOptimizerFailed, err)
	}
	if sol == nil {
		return nil, fmt.Errorf("%w: no solution", ErrOptimizerFailed)
	}
	if sol.Duration == 0 {
		sol.Duration = time.Since(start)
	}

	s.metrics.RecordSolve(sol.Duration.Seconds(), sol.TimedOut)
	if sol.TimedOut {
		s.logger.Warn("optimizer timed out, continuing with best-known assignment",
			"cycle", cycle,
			"timeout", s.cfg.Solver.Timeout,
			"objective", sol.Objective,
		)
	}

	return sol, nil
}

// newRecord fills the assignment-derived fields of a cycle record.
func (s *Simulator) newRecord(cycle int, tasks []*Task, agents []Agent, final Assignment) *CycleRecord {
	rec := &CycleRecord{
		RunID:      s.runID,
		Instance:   s.schedule.Name(),
		Strategy:   s.strategy.Name(),
		Mode:       s.strategy.Mode(),
		Cycle:      cycle,
		Agents:     len(agents),
		Tasks:      len(tasks),
		Assignment: final,
	}
	rec.Profit, rec.Affinity = final.Totals(tasks)

	if len(tasks) > 0 {
		rec.Assigned = float64(final.Len()) / float64(len(tasks))
	}
	if len(agents) > 0 {
		var sum float64
		for _, a := range agents {
			sum += float64(final.Load(a.ID, s.index)) / float64(a.Capacity)
		}
		rec.Utilization = sum / float64(len(agents))
	}

	rec.TaskAgents = make(map[int]int, len(s.tasks))
	for _, t := range s.tasks {
		rec.TaskAgents[t.ID()] = types.RowUnavailable
	}
	for _, t := range tasks {
		rec.TaskAgents[t.ID()] = types.RowUnassigned
	}
	for agent, ids := range final {
		for _, id := range ids {
			rec.TaskAgents[id] = agent
		}
	}

	return rec
}

// pressures fills the fairness fields after the affinity update: per-cycle
// values over the available tasks and agents, cumulative values over every
// task and every compatible agent.
func (s *Simulator) pressures(rec *CycleRecord, tasks []*Task, filter AgentSet) error {
	cycleTasks := fairness.Reachable(tasks, filter)
	allTasks := fairness.Reachable(s.tasks, nil)

	var err error
	if rec.PressureMax, err = fairness.MaxPressure(cycleTasks, filter); err != nil {
		return err
	}
	if rec.PressureMean, err = fairness.MeanPressure(cycleTasks, filter); err != nil {
		return err
	}
	if rec.TotalPressureMax, err = fairness.MaxPressure(allTasks, nil); err != nil {
		return err
	}
	if rec.TotalPressureMean, err = fairness.MeanPressure(allTasks, nil); err != nil {
		return err
	}

	return nil
}

// transition moves to a new phase and records the time spent in the old one.
func (s *Simulator) transition(to Phase) {
	from := s.phase
	if from == to {
		return
	}

	now := time.Now()
	s.metrics.RecordPhaseTransition(from, to, now.Sub(s.phaseStart).Seconds())
	s.logger.Debug("phase transition", "from", from.String(), "to", to.String(), "cycle", s.cycle+1)

	s.phase = to
	s.phaseStart = now
}
