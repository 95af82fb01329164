package strategy

import (
	"fmt"
	"strconv"

	"github.com/HelgeS/mcap-rotational-diversity/fairness"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

const (
	modeProfit   = "profit"
	modeAffinity = "affinity"
)

// Switch scores with profits while the cycle's maximum pressure stays below
// a threshold and with affinities once it reaches the threshold.
type Switch struct {
	Passthrough

	threshold float64
	pressure  float64
	mode      string
	logger    types.Logger
}

var _ types.Strategy = (*Switch)(nil)

// NewSwitch creates a threshold switch strategy.
//
// Parameters:
//   - threshold: Maximum pressure at which profits are still used
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *Switch: The strategy
//
// Example:
//
//	s := strategy.NewSwitch(3)
//	s.Name() // "switch3"
func NewSwitch(threshold float64, opts ...Option) *Switch {
	cfg := newSettings(opts)

	return &Switch{
		threshold: threshold,
		mode:      modeProfit,
		logger:    cfg.logger,
	}
}

// Name returns "switch" followed by the threshold.
func (s *Switch) Name() string {
	return "switch" + strconv.FormatFloat(s.threshold, 'f', -1, 64)
}

// Mode returns the branch taken by the last Profits call, "profit" or "affinity".
func (s *Switch) Mode() string {
	return s.mode
}

// Pressure returns the maximum pressure observed by the last Profits call.
func (s *Switch) Pressure() float64 {
	return s.pressure
}

// Profits returns profit vectors below the threshold and affinity vectors otherwise.
func (s *Switch) Profits(tasks []*types.Task, agents []types.Agent) ([][]int64, error) {
	pressure, err := fairness.MaxPressure(tasks, types.AgentSetOf(agents))
	if err != nil {
		return nil, fmt.Errorf("switch pressure: %w", err)
	}

	s.pressure = pressure
	if pressure < s.threshold {
		s.mode = modeProfit
		return profitVectors(tasks, agents), nil
	}

	s.logger.Debug("pressure above threshold, scoring by affinity",
		"pressure", pressure, "threshold", s.threshold)
	s.mode = modeAffinity

	return affinityVectors(tasks, agents), nil
}
