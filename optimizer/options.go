package optimizer

import (
	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

const defaultNodeLimit = 1_000_000

// Option configures an optimizer or selector.
type Option func(*settings)

type settings struct {
	logger    types.Logger
	nodeLimit int
}

func newSettings(opts []Option) settings {
	s := settings{logger: logging.NewNop(), nodeLimit: defaultNodeLimit}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.nodeLimit <= 0 {
		s.nodeLimit = defaultNodeLimit
	}

	return s
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithNodeLimit caps the number of search nodes BranchAndBound visits.
// Non-positive values select the default of one million.
func WithNodeLimit(limit int) Option {
	return func(s *settings) {
		s.nodeLimit = limit
	}
}
