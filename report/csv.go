package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// LogHeader is the column set of the per-cycle log file.
var LogHeader = []string{
	"instance", "strategy", "mode", "cycle", "objective",
	"profit", "affinity", "pressure_max", "pressure_mean",
	"total_pressure_max", "total_pressure_mean", "assigned",
	"utilization", "agents", "tasks", "timeout",
}

// CSVWriter writes <affix>_log.csv and <affix>_assignment.csv.
//
// The log file holds one LogHeader row per cycle. The assignment file holds
// one row per cycle with a column per task: the agent id, 0 when the task was
// available but unassigned, or -1 when it was unavailable.
type CSVWriter struct {
	mu         sync.Mutex
	logFile    *os.File
	assignFile *os.File
	log        *csv.Writer
	assign     *csv.Writer
	taskIDs    []int
	closed     bool
}

var _ types.RecordSink = (*CSVWriter)(nil)

// NewCSVWriter creates both files in dir and writes their headers.
//
// Parameters:
//   - dir: Output directory, created if missing
//   - affix: File name prefix, conventionally "<instance>_<strategy>"
//   - taskIDs: Every task id of the instance, in declaration order
//
// Returns:
//   - *CSVWriter: The writer
//   - error: File creation errors
func NewCSVWriter(dir, affix string, taskIDs []int) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(dir, affix+"_log.csv"))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	assignFile, err := os.Create(filepath.Join(dir, affix+"_assignment.csv"))
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("create assignment file: %w", err)
	}

	w := &CSVWriter{
		logFile:    logFile,
		assignFile: assignFile,
		log:        newSemicolonWriter(logFile),
		assign:     newSemicolonWriter(assignFile),
		taskIDs:    append([]int(nil), taskIDs...),
	}

	header := []string{"instance", "strategy", "cycle"}
	for _, id := range taskIDs {
		header = append(header, strconv.Itoa(id))
	}
	if err := w.writeRows(LogHeader, header); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

func newSemicolonWriter(f *os.File) *csv.Writer {
	w := csv.NewWriter(f)
	w.Comma = ';'

	return w
}

// Write appends the record to both files and flushes them.
func (w *CSVWriter) Write(_ context.Context, rec *types.CycleRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("csv writer closed")
	}

	return w.writeRows(LogRow(rec), AssignmentRow(rec, w.taskIDs))
}

func (w *CSVWriter) writeRows(logRow, assignRow []string) error {
	if err := w.log.Write(logRow); err != nil {
		return fmt.Errorf("write log row: %w", err)
	}
	if err := w.assign.Write(assignRow); err != nil {
		return fmt.Errorf("write assignment row: %w", err)
	}
	w.log.Flush()
	w.assign.Flush()

	return errors.Join(w.log.Error(), w.assign.Error())
}

// Close flushes and closes both files. Closing twice is a no-op.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.log.Flush()
	w.assign.Flush()

	return errors.Join(w.log.Error(), w.assign.Error(), w.logFile.Close(), w.assignFile.Close())
}

// LogRow renders a record in LogHeader column order. Ratios are rounded to
// two decimals and the timeout column holds the solve time in seconds.
func LogRow(rec *types.CycleRecord) []string {
	return []string{
		rec.Instance,
		rec.Strategy,
		rec.Mode,
		strconv.Itoa(rec.Cycle),
		strconv.FormatInt(rec.Objective, 10),
		strconv.FormatInt(rec.Profit, 10),
		strconv.FormatInt(rec.Affinity, 10),
		round2(rec.PressureMax),
		round2(rec.PressureMean),
		round2(rec.TotalPressureMax),
		round2(rec.TotalPressureMean),
		round2(rec.Assigned),
		round2(rec.Utilization),
		strconv.Itoa(rec.Agents),
		strconv.Itoa(rec.Tasks),
		round2(rec.SolveDuration.Seconds()),
	}
}

// AssignmentRow renders the per-task agent column for a record.
// Tasks missing from rec.TaskAgents are reported as unavailable.
func AssignmentRow(rec *types.CycleRecord, taskIDs []int) []string {
	row := []string{rec.Instance, rec.Strategy, strconv.Itoa(rec.Cycle)}
	for _, id := range taskIDs {
		agent, ok := rec.TaskAgents[id]
		if !ok {
			agent = types.RowUnavailable
		}
		row = append(row, strconv.Itoa(agent))
	}

	return row
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
