package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}

	return m.GetGauge().GetValue()
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	rec := &types.CycleRecord{
		Instance:    "small",
		Strategy:    "switch0.5",
		Objective:   42,
		PressureMax: 1.5,
		Assigned:    0.75,
		Utilization: 0.5,
	}
	p.RecordCycle(rec)
	p.RecordCycle(rec)
	p.RecordPhaseTransition(types.PhaseIdle, types.PhaseScoring, 0.01)
	p.RecordExchange("oneswap80", types.ExchangeStats{Candidates: 5, CapacityRejected: 2, WelfareGain: 3}, 1)
	p.RecordSolve(0.2, true)
	p.RecordSolve(0.1, false)

	require.InDelta(t, 2, value(t, p.cycles.WithLabelValues("small", "switch0.5")), 0)
	require.InDelta(t, 42, value(t, p.objective.WithLabelValues("small", "switch0.5")), 0)
	require.InDelta(t, 1.5, value(t, p.pressureMax.WithLabelValues("small", "switch0.5")), 0)
	require.InDelta(t, 1, value(t, p.phaseTransitions.WithLabelValues("Idle", "Scoring")), 0)
	require.InDelta(t, 5, value(t, p.exchangeCandidates.WithLabelValues("oneswap80")), 0)
	require.InDelta(t, 2, value(t, p.exchangeRejections.WithLabelValues("oneswap80", "capacity")), 0)
	require.InDelta(t, 1, value(t, p.exchangeSwaps.WithLabelValues("oneswap80")), 0)
	require.InDelta(t, 1, value(t, p.solveTimeouts), 0)

	t.Run("nil record is ignored", func(t *testing.T) {
		require.NotPanics(t, func() { p.RecordCycle(nil) })
	})
}

func TestServer_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")
	p.RecordSolve(0.5, false)

	h := NewServer(":0", reg, nil).Handler()

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "OK\n", rr.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.True(t, strings.Contains(rr.Body.String(), "test_solver_duration_seconds"))
	})
}
