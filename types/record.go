package types

import (
	"context"
	"time"
)

// Task states in CycleRecord.TaskAgents besides a positive agent id.
const (
	// RowUnassigned marks a task that was available but not assigned.
	RowUnassigned = 0
	// RowUnavailable marks a task that was not available in the cycle.
	RowUnavailable = -1
)

// CycleRecord is the log record emitted once per simulated cycle.
type CycleRecord struct {
	RunID    string `json:"runId"`
	Instance string `json:"instance"`
	Strategy string `json:"strategy"`
	Mode     string `json:"mode"`
	Cycle    int    `json:"cycle"`

	Objective int64 `json:"objective"`
	Profit    int64 `json:"profit"`
	Affinity  int64 `json:"affinity"`

	PressureMax       float64 `json:"pressureMax"`
	PressureMean      float64 `json:"pressureMean"`
	TotalPressureMax  float64 `json:"totalPressureMax"`
	TotalPressureMean float64 `json:"totalPressureMean"`

	// Assigned is the fraction of available tasks that were assigned.
	Assigned float64 `json:"assigned"`
	// Utilization is the mean load/capacity ratio over available agents.
	Utilization float64 `json:"utilization"`

	Agents int `json:"agents"`
	Tasks  int `json:"tasks"`

	SolveDuration time.Duration `json:"solveDuration"`
	TimedOut      bool          `json:"timedOut"`

	Swaps       int   `json:"swaps"`
	WelfareGain int64 `json:"welfareGain"`

	Assignment Assignment `json:"assignment"`
	// TaskAgents maps every task of the instance to its agent this cycle,
	// RowUnassigned or RowUnavailable.
	TaskAgents map[int]int `json:"taskAgents"`
}

// RecordSink consumes cycle records.
type RecordSink interface {
	// Write stores or forwards one record.
	Write(ctx context.Context, rec *CycleRecord) error

	// Close flushes buffered output and releases resources.
	Close() error
}
