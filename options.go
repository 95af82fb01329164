package mcap

// Option configures a Simulator with optional dependencies.
type Option func(*simulatorOptions)

// simulatorOptions holds optional Simulator configuration.
type simulatorOptions struct {
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	optimizer Optimizer
	sink      RecordSink
	runID     string
}

// WithHooks sets cycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewSimulator
//
// Example:
//
//	hooks := &mcap.Hooks{
//	    OnCycleCompleted: func(ctx context.Context, rec *mcap.CycleRecord) error {
//	        return plot(rec)
//	    },
//	}
//	sim, _ := mcap.NewSimulator(&cfg, inst, s, mcap.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *simulatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewSimulator
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "mcap")
//	sim, _ := mcap.NewSimulator(&cfg, inst, s, mcap.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *simulatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewSimulator
func WithLogger(logger Logger) Option {
	return func(o *simulatorOptions) {
		o.logger = logger
	}
}

// WithOptimizer replaces the default greedy optimizer.
//
// Parameters:
//   - opt: Optimizer producing the initial assignment of every cycle
//
// Returns:
//   - Option: Functional option for NewSimulator
func WithOptimizer(opt Optimizer) Option {
	return func(o *simulatorOptions) {
		o.optimizer = opt
	}
}

// WithRecordSink sets the consumer of cycle records. Use report.MultiSink to
// fan out to several sinks. The simulator does not close the sink.
//
// Parameters:
//   - sink: RecordSink implementation
//
// Returns:
//   - Option: Functional option for NewSimulator
func WithRecordSink(sink RecordSink) Option {
	return func(o *simulatorOptions) {
		o.sink = sink
	}
}

// WithRunID sets the run id stamped on every record. A random UUID is used
// when unset.
func WithRunID(id string) Option {
	return func(o *simulatorOptions) {
		o.runID = id
	}
}
