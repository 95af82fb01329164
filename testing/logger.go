package testing

import (
	"testing"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logger"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// NewTestLogger creates a logger that writes to the test log.
// This is useful for seeing simulator output during test runs.
func NewTestLogger(tb testing.TB) types.Logger {
	return logger.NewTest(tb)
}
