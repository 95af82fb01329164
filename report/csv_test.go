package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func sampleRecord() *types.CycleRecord {
	return &types.CycleRecord{
		RunID:             "run-1",
		Instance:          "small",
		Strategy:          "switch3",
		Mode:              "profit",
		Cycle:             2,
		Objective:         21,
		Profit:            21,
		Affinity:          4,
		PressureMax:       0.666666,
		PressureMean:      0.333333,
		TotalPressureMax:  1,
		TotalPressureMean: 0.5,
		Assigned:          1,
		Utilization:       0.75,
		Agents:            2,
		Tasks:             3,
		SolveDuration:     1234 * time.Millisecond,
		Assignment:        types.Assignment{1: {1, 2}, 2: {3}},
		TaskAgents:        map[int]int{1: 1, 2: 1, 3: 2, 4: types.RowUnassigned},
	}
}

func TestLogRow(t *testing.T) {
	row := LogRow(sampleRecord())

	require.Len(t, row, len(LogHeader))
	require.Equal(t, []string{
		"small", "switch3", "profit", "2", "21", "21", "4",
		"0.67", "0.33", "1", "0.5", "1", "0.75", "2", "3", "1.23",
	}, row)
}

func TestAssignmentRow(t *testing.T) {
	row := AssignmentRow(sampleRecord(), []int{1, 2, 3, 4, 5})
	require.Equal(t, []string{"small", "switch3", "2", "1", "1", "2", "0", "-1"}, row)
}

func TestCSVWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	w, err := NewCSVWriter(dir, "small_switch3", []int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), sampleRecord()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Error(t, w.Write(context.Background(), sampleRecord()))

	logData, err := os.ReadFile(filepath.Join(dir, "small_switch3_log.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(logData)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(LogHeader, ";"), lines[0])
	require.Equal(t, "small;switch3;profit;2;21;21;4;0.67;0.33;1;0.5;1;0.75;2;3;1.23", lines[1])

	assignData, err := os.ReadFile(filepath.Join(dir, "small_switch3_assignment.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(assignData)), "\n")
	require.Equal(t, []string{"instance;strategy;cycle;1;2;3;4;5", "small;switch3;2;1;1;2;0;-1"}, lines)
}
