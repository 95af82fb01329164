package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_Record(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordCycle(nil)
		metrics.RecordCycle(&types.CycleRecord{Cycle: 3})
		metrics.RecordPhaseTransition(types.PhaseIdle, types.PhaseScoring, 1.5)
		metrics.RecordPhaseTransition(types.Phase(99), types.Phase(100), -1)
		metrics.RecordExchange("oneswap60", types.ExchangeStats{Candidates: 4}, 1)
		metrics.RecordSolve(0.2, true)
	})
}
