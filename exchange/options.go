package exchange

import (
	"fmt"
	"math"
	"time"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Option configures an exchanger.
type Option func(*settings)

type settings struct {
	logger  types.Logger
	timeout time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	return s
}

// WithLogger sets the logger used for exchange diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTimeout bounds each selector call. Zero means no deadline beyond the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

func validateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return fmt.Errorf("%w: acceptance ratio %v must be in (0, 1]", types.ErrInvalidConfig, ratio)
	}

	return nil
}

// Bound returns the minimum acceptable objective ⌊objective·ratio⌋.
func Bound(objective int64, ratio float64) int64 {
	return int64(math.Floor(float64(objective) * ratio))
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
