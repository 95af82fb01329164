package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mcap "github.com/HelgeS/mcap-rotational-diversity"
	"github.com/HelgeS/mcap-rotational-diversity/instance"
	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/internal/metrics"
	"github.com/HelgeS/mcap-rotational-diversity/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <instance>...",
		Short: "Simulate strategies over instance files",
		Long: `Run every given strategy over every given instance file.

Each run prints one log row per cycle and, unless --no-csv is set, writes
<instance>_<strategy>_log.csv and <instance>_<strategy>_assignment.csv to the
output directory. With --nats-url every cycle record is also published to
NATS JetStream.

Every flag can also be set through an MCAP_ environment variable, e.g.
MCAP_NATS_URL or MCAP_LOG_LEVEL. Flags win over the environment, and both
win over the --config file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			return runRun(cmd, v, args)
		},
	}

	f := cmd.Flags()
	f.StringP("config", "c", "", "YAML configuration file")
	f.StringSliceP("strategy", "s", nil,
		"Strategies to run: profit, affinity, productcomb, switch, wpp, oneswap, exchange (default from config)")
	f.Float64("threshold", 3, "Pressure threshold of the switch strategy")
	f.Bool("ind-weights", false, "Blend every task with its own weight (wpp)")
	f.Bool("limit-assignments", false, "Permanently restrict recently used agents")
	f.Float64("acceptance", 0.6, "Acceptance ratio of negotiating strategies, in (0, 1]")
	f.Duration("timeout", 60*time.Second, "Optimizer deadline per cycle")
	f.Duration("exchange-timeout", 0, "Selector deadline per cycle of the exchange strategy")
	f.Int("node-limit", 0, "Search node limit of the exchange strategy (0 = default)")
	f.StringP("output", "o", "results", "Output directory of the CSV files")
	f.Bool("no-csv", false, "Do not write CSV files")
	f.String("nats-url", "", "Publish records to this NATS server")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.BoolP("quiet", "q", false, "Do not print log rows")

	return cmd
}

// newViper binds the command flags and the MCAP_ environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("MCAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	return v, nil
}

// resolveConfig loads the config file and applies every flag or environment
// variable that is set.
func resolveConfig(v *viper.Viper) (*mcap.Config, []string, error) {
	cfg := mcap.DefaultConfig()
	if path := v.GetString("config"); path != "" {
		loaded, err := mcap.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}

	if v.IsSet("threshold") {
		cfg.Strategy.Threshold = v.GetFloat64("threshold")
	}
	if v.IsSet("ind-weights") {
		cfg.Strategy.IndividualWeights = v.GetBool("ind-weights")
	}
	if v.IsSet("limit-assignments") {
		cfg.Strategy.LimitAssignments = v.GetBool("limit-assignments")
	}
	if v.IsSet("acceptance") {
		cfg.Strategy.AcceptanceRatio = v.GetFloat64("acceptance")
	}
	if v.IsSet("timeout") {
		cfg.Solver.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("exchange-timeout") {
		cfg.Solver.ExchangeTimeout = v.GetDuration("exchange-timeout")
	}
	if v.IsSet("node-limit") {
		cfg.Solver.NodeLimit = v.GetInt("node-limit")
	}
	if v.IsSet("output") {
		cfg.Output.Dir = v.GetString("output")
	}
	if v.IsSet("no-csv") {
		cfg.Output.CSV = !v.GetBool("no-csv")
	}
	if v.IsSet("nats-url") {
		cfg.NATS.URL = v.GetString("nats-url")
	}
	if v.IsSet("metrics-addr") {
		cfg.Metrics.Addr = v.GetString("metrics-addr")
		cfg.Metrics.Enabled = cfg.Metrics.Addr != ""
	}
	if v.IsSet("log-level") {
		cfg.LogLevel = v.GetString("log-level")
	}

	kinds := v.GetStringSlice("strategy")
	if len(kinds) == 0 {
		kinds = []string{cfg.Strategy.Kind}
	}
	for _, kind := range kinds {
		c := cfg
		c.Strategy.Kind = kind
		if err := c.Validate(); err != nil {
			return nil, nil, err
		}
	}

	return &cfg, kinds, nil
}

// runner holds what every run of one command invocation shares.
type runner struct {
	cfg       *mcap.Config
	cache     *instance.Cache
	logger    *logging.SlogLogger
	collector mcap.MetricsCollector
	nc        *nats.Conn
	out       io.Writer
	quiet     bool
}

func runRun(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, kinds, err := resolveConfig(v)
	if err != nil {
		return err
	}

	logger, err := logging.NewText(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		cfg:    cfg,
		cache:  instance.NewCache(instance.WithLogger(logger)),
		logger: logger,
		out:    cmd.OutOrStdout(),
		quiet:  v.GetBool("quiet"),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		r.collector = metrics.NewPrometheus(reg, cfg.Metrics.Namespace)
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, logger)

		srvCtx, cancelSrv := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Start(srvCtx); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			cancelSrv()
			<-done
		}()
	}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("mcap"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Close()
		r.nc = nc
	}

	if !r.quiet {
		fmt.Fprintln(r.out, strings.Join(report.LogHeader, ";"))
	}

	for _, path := range args {
		for _, kind := range kinds {
			if err := r.run(ctx, path, kind); err != nil {
				return err
			}
		}
	}

	return nil
}

// run simulates one strategy over one instance.
func (r *runner) run(ctx context.Context, path, kind string) (err error) {
	inst, err := r.cache.Get(path)
	if err != nil {
		return err
	}

	cfg := *r.cfg
	cfg.Strategy.Kind = kind
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	s, err := mcap.NewStrategy(&cfg, logger)
	if err != nil {
		return err
	}

	var sinks report.MultiSink
	defer func() {
		err = errors.Join(err, sinks.Close())
	}()

	if cfg.Output.CSV {
		ids := make([]int, 0, len(inst.Tasks()))
		for _, t := range inst.Tasks() {
			ids = append(ids, t.ID())
		}
		w, err := report.NewCSVWriter(cfg.Output.Dir, inst.Name()+"_"+s.Name(), ids)
		if err != nil {
			return err
		}
		sinks = append(sinks, w)
	}
	if r.nc != nil {
		pub, err := report.NewNATSPublisher(ctx, r.nc, cfg.NATS.NATSConfig, report.WithLogger(logger))
		if err != nil {
			return err
		}
		sinks = append(sinks, pub)
	}

	hooks := &mcap.Hooks{
		OnCycleCompleted: func(_ context.Context, rec *mcap.CycleRecord) error {
			if r.quiet {
				return nil
			}
			_, err := fmt.Fprintln(r.out, strings.Join(report.LogRow(rec), ";"))
			return err
		},
	}

	simOpts := []mcap.Option{
		mcap.WithLogger(logger),
		mcap.WithRecordSink(sinks),
		mcap.WithHooks(hooks),
		mcap.WithRunID(runID),
	}
	if r.collector != nil {
		simOpts = append(simOpts, mcap.WithMetrics(r.collector))
	}

	compatible := make(map[int]int, len(inst.Tasks()))
	for _, t := range inst.Tasks() {
		compatible[t.ID()] = t.NumAgents()
	}

	sim, err := mcap.NewSimulator(&cfg, inst, s, simOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	records, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s with %s: %w", inst.Name(), s.Name(), err)
	}

	rot := report.Rotations(records, compatible)
	logger.Info("run finished",
		"instance", inst.Name(),
		"strategy", s.Name(),
		"cycles", len(records),
		"duration", time.Since(start),
		"mean_repeat", rot.MeanRepeat,
		"min_rotations", rot.MinRotations,
		"rotated_tasks", rot.RotatedTasks,
	)

	return nil
}
