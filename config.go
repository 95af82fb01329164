package mcap

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/report"
)

// Strategy kinds accepted by StrategyConfig.Kind.
const (
	KindProfit      = "profit"
	KindAffinity    = "affinity"
	KindProductComb = "productcomb"
	KindSwitch      = "switch"
	KindWPP         = "wpp"
	KindOneSwap     = "oneswap"
	KindExchange    = "exchange"

	// KindNegotiation is accepted as an alias of KindOneSwap.
	KindNegotiation = "negotiation"
)

// StrategyConfig selects and parameterizes the scoring strategy.
type StrategyConfig struct {
	// Kind is one of profit, affinity, productcomb, switch, wpp, oneswap
	// (alias negotiation) or exchange.
	Kind string `yaml:"kind"`

	// Threshold is the pressure at which the switch strategy changes from
	// profit to affinity scores.
	//
	// Default: 3
	Threshold float64 `yaml:"threshold"`

	// IndividualWeights makes the wpp strategy blend every task with its own
	// weight instead of one global weight.
	IndividualWeights bool `yaml:"individualWeights"`

	// LimitAssignments wraps the strategy with the limited-assignment policy.
	LimitAssignments bool `yaml:"limitAssignments"`

	// AcceptanceRatio r bounds the profit of negotiated assignments to ⌊O⁰·r⌋.
	// Used by oneswap and exchange. Must be in (0, 1].
	//
	// Default: 0.6
	AcceptanceRatio float64 `yaml:"acceptanceRatio"`
}

// SolverConfig bounds the optimizer and selector calls of a cycle.
type SolverConfig struct {
	// Timeout is the deadline of one optimizer call. A timed-out solve
	// continues with the best-known assignment.
	//
	// Default: 60 seconds
	Timeout time.Duration `yaml:"timeout"`

	// ExchangeTimeout is the deadline of one selector call of the exchange
	// strategy. Zero means only the cycle context applies.
	ExchangeTimeout time.Duration `yaml:"exchangeTimeout"`

	// NodeLimit caps the branch-and-bound search. Zero selects the selector default.
	NodeLimit int `yaml:"nodeLimit"`
}

// OutputConfig controls the CSV record files.
type OutputConfig struct {
	// Dir receives <instance>_<strategy>_log.csv and _assignment.csv.
	//
	// Default: "results"
	Dir string `yaml:"dir"`

	// CSV enables the CSV writer.
	CSV bool `yaml:"csv"`
}

// NATSConfig enables publishing records to NATS JetStream.
type NATSConfig struct {
	// URL of the NATS server. Empty disables publishing.
	URL string `yaml:"url"`

	report.NATSConfig `yaml:",inline"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled starts the /metrics and /health server.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address.
	//
	// Default: ":9090"
	Addr string `yaml:"addr"`

	// Namespace prefixes every metric name.
	//
	// Default: "mcap"
	Namespace string `yaml:"namespace"`
}

// Config is the configuration of a simulation run.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Solver   SolverConfig   `yaml:"solver"`
	Output   OutputConfig   `yaml:"output"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns a Config with the defaults of the command line tool.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	cfg := Config{
		Strategy: StrategyConfig{
			Kind:            KindProfit,
			Threshold:       3,
			AcceptanceRatio: 0.6,
		},
		Solver: SolverConfig{
			Timeout: 60 * time.Second,
		},
		Output: OutputConfig{
			Dir: "results",
			CSV: true,
		},
		Metrics: MetricsConfig{
			Addr:      ":9090",
			Namespace: "mcap",
		},
		LogLevel: "info",
	}
	cfg.NATS.ApplyDefaults()

	return cfg
}

// ApplyDefaults fills in missing configuration values with defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func ApplyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Strategy.Kind == "" {
		cfg.Strategy.Kind = defaults.Strategy.Kind
	}
	if cfg.Strategy.Threshold == 0 {
		cfg.Strategy.Threshold = defaults.Strategy.Threshold
	}
	if cfg.Strategy.AcceptanceRatio == 0 {
		cfg.Strategy.AcceptanceRatio = defaults.Strategy.AcceptanceRatio
	}
	if cfg.Solver.Timeout == 0 {
		cfg.Solver.Timeout = defaults.Solver.Timeout
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaults.Output.Dir
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = defaults.Metrics.Addr
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	cfg.NATS.ApplyDefaults()
}

// Validate checks configuration constraints.
//
// Rules:
//   - Strategy.Kind is a known strategy kind
//   - Strategy.Threshold >= 0
//   - Strategy.AcceptanceRatio in (0, 1]
//   - Solver.Timeout > 0, ExchangeTimeout >= 0, NodeLimit >= 0
//   - LogLevel is a known level
//
// Returns:
//   - error: Error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if !knownKind(cfg.Strategy.Kind) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrUnknownStrategy, cfg.Strategy.Kind)
	}
	if cfg.Strategy.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be >= 0, got %v", ErrInvalidConfig, cfg.Strategy.Threshold)
	}
	if !(cfg.Strategy.AcceptanceRatio > 0 && cfg.Strategy.AcceptanceRatio <= 1) {
		return fmt.Errorf("%w: acceptance ratio must be in (0, 1], got %v", ErrInvalidConfig, cfg.Strategy.AcceptanceRatio)
	}
	if cfg.Solver.Timeout <= 0 {
		return fmt.Errorf("%w: solver timeout must be > 0, got %v", ErrInvalidConfig, cfg.Solver.Timeout)
	}
	if cfg.Solver.ExchangeTimeout < 0 {
		return fmt.Errorf("%w: exchange timeout must be >= 0, got %v", ErrInvalidConfig, cfg.Solver.ExchangeTimeout)
	}
	if cfg.Solver.NodeLimit < 0 {
		return fmt.Errorf("%w: node limit must be >= 0, got %d", ErrInvalidConfig, cfg.Solver.NodeLimit)
	}
	if cfg.Output.CSV && cfg.Output.Dir == "" {
		return fmt.Errorf("%w: output dir is required for CSV output", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults and validates it.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Read, parse or validation error
//
// Example:
//
//	cfg, err := mcap.LoadConfig("run.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their default values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TestConfig returns a configuration for fast test execution: short solver
// deadlines and no file output.
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Solver.Timeout = 5 * time.Second
	cfg.Output.CSV = false

	return cfg
}

func knownKind(kind string) bool {
	switch kind {
	case KindProfit, KindAffinity, KindProductComb, KindSwitch, KindWPP,
		KindOneSwap, KindNegotiation, KindExchange:
		return true
	default:
		return false
	}
}
