package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcap "github.com/HelgeS/mcap-rotational-diversity"
	mcaptest "github.com/HelgeS/mcap-rotational-diversity/testing"
)

const small = `% three tasks, two agents, two cycles
agent(1,10).
agent(2,10).
task(1,[5,5],[10,1],[1,2]).
task(2,[5,5],[10,1],[1,2]).
task(3,[5,5],[10,1],[1,2]).
taskavail(1,[1,2,3]).
agentavail(1,[1,2]).
taskavail(2,[1,2,3]).
agentavail(2,[1,2]).
`

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()

	return out.String(), errOut.String(), err
}

func writeInstance(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "small.pl")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o600))

	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	require.Equal(t, "mcap", root.Use)

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, expected := range []string{"run", "inspect"} {
		assert.True(t, names[expected], "missing subcommand %q", expected)
	}
}

func TestRunCommand(t *testing.T) {
	path := writeInstance(t)

	t.Run("prints rows and writes csv files", func(t *testing.T) {
		dir := t.TempDir()
		stdout, _, err := executeCommand(t, "run", path, "-s", "profit,affinity", "-o", dir, "--log-level", "error")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "instance;strategy;mode;cycle;objective;profit;affinity;pressure_max;pressure_mean;"+
			"total_pressure_max;total_pressure_mean;assigned;utilization;agents;tasks;timeout", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "small;profit;"))
		assert.True(t, strings.HasPrefix(lines[3], "small;affinity;"))
		for _, line := range lines[1:] {
			assert.Len(t, strings.Split(line, ";"), 16)
		}

		for _, name := range []string{"small_profit", "small_affinity"} {
			log := readLines(t, filepath.Join(dir, name+"_log.csv"))
			require.Len(t, log, 3)
			assert.True(t, strings.HasPrefix(log[0], "instance;strategy;mode;cycle"))

			assign := readLines(t, filepath.Join(dir, name+"_assignment.csv"))
			require.Len(t, assign, 3)
			assert.Equal(t, "instance;strategy;cycle;1;2;3", assign[0])
		}

		assign := readLines(t, filepath.Join(dir, "small_profit_assignment.csv"))
		assert.Equal(t, "small;profit;1;1;1;2", assign[1])
	})

	t.Run("logs a rotation summary", func(t *testing.T) {
		_, stderr, err := executeCommand(t, "run", path, "-s", "profit", "--no-csv", "-q", "--log-level", "info")
		require.NoError(t, err)

		assert.Contains(t, stderr, "run finished")
		assert.Contains(t, stderr, "mean_repeat=1 ")
		assert.Contains(t, stderr, "min_rotations=0 ")
		assert.Contains(t, stderr, "rotated_tasks=0")
	})

	t.Run("quiet without csv", func(t *testing.T) {
		dir := t.TempDir()
		stdout, _, err := executeCommand(t, "run", path, "-q", "--no-csv", "-o", dir, "--log-level", "error")
		require.NoError(t, err)
		assert.Empty(t, stdout)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("flags override the config file", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(t.TempDir(), "mcap.yaml")
		cfg := "strategy:\n  kind: switch\n  threshold: 2\noutput:\n  dir: " + dir + "\nlogLevel: error\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

		_, _, err := executeCommand(t, "run", path, "-c", cfgPath, "--threshold", "5", "-q")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "small_switch5_log.csv"))
		assert.NoFileExists(t, filepath.Join(dir, "small_switch2_log.csv"))
	})

	t.Run("environment sits between config file and flags", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(t.TempDir(), "mcap.yaml")
		cfg := "strategy:\n  kind: switch\n  threshold: 2\nlogLevel: error\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

		t.Setenv("MCAP_THRESHOLD", "4")
		t.Setenv("MCAP_OUTPUT", dir)

		_, _, err := executeCommand(t, "run", path, "-c", cfgPath, "-q")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "small_switch4_log.csv"))

		_, _, err = executeCommand(t, "run", path, "-c", cfgPath, "-q", "--threshold", "6")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "small_switch6_log.csv"))
	})

	t.Run("limited assignment suffix", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := executeCommand(t, "run", path, "-s", "oneswap", "--acceptance", "0.8",
			"--limit-assignments", "-o", dir, "-q", "--log-level", "error")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "small_oneswap80-limit_log.csv"))
	})

	t.Run("serves metrics while running", func(t *testing.T) {
		_, _, err := executeCommand(t, "run", path, "-s", "exchange", "--metrics-addr", "127.0.0.1:0",
			"--no-csv", "-q", "--log-level", "error")
		require.NoError(t, err)
	})

	t.Run("publishes records to nats", func(t *testing.T) {
		ns, nc := mcaptest.StartEmbeddedNATS(t)
		_, _, err := executeCommand(t, "run", path, "-s", "profit,oneswap", "--nats-url", ns.ClientURL(),
			"--no-csv", "-q", "--log-level", "error")
		require.NoError(t, err)

		ctx := context.Background()
		js := mcaptest.NewJetStream(t, nc)
		stream, err := js.Stream(ctx, "MCAP_RECORDS")
		require.NoError(t, err)
		info, err := stream.Info(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(4), info.State.Msgs)

		kv, err := js.KeyValue(ctx, "mcap-latest")
		require.NoError(t, err)
		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		require.Len(t, keys, 2)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, _, err := executeCommand(t, "run", path, "-s", "random", "--no-csv")
		require.ErrorIs(t, err, mcap.ErrUnknownStrategy)
	})

	t.Run("invalid acceptance ratio", func(t *testing.T) {
		_, _, err := executeCommand(t, "run", path, "--acceptance", "0", "--no-csv")
		require.ErrorIs(t, err, mcap.ErrInvalidConfig)
	})

	t.Run("missing instance", func(t *testing.T) {
		_, _, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "missing.pl"), "--no-csv", "-q")
		require.Error(t, err)
	})

	t.Run("requires an instance", func(t *testing.T) {
		_, _, err := executeCommand(t, "run")
		require.Error(t, err)
	})
}

func TestInspectCommand(t *testing.T) {
	path := writeInstance(t)

	t.Run("stats", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "inspect", path)
		require.NoError(t, err)

		assert.Contains(t, stdout, "small\n")
		assert.Contains(t, stdout, "tasks:      3\n")
		assert.Contains(t, stdout, "agents:     2\n")
		assert.Contains(t, stdout, "cycles:     2\n")
		assert.Contains(t, stdout, "capacity:   20\n")
		assert.Contains(t, stdout, "min weight: 15\n")
		assert.Contains(t, stdout, "compatible: 2.00 agents/task\n")
		assert.Contains(t, stdout, "available:  3.00 tasks/cycle\n")
		assert.Contains(t, stdout, "overrides:  false\n")
	})

	t.Run("facts", func(t *testing.T) {
		stdout, _, err := executeCommand(t, "inspect", "--facts", path)
		require.NoError(t, err)

		assert.Contains(t, stdout, "agent(1,10).")
		assert.Contains(t, stdout, "taskavail(2,[1,2,3]).")
	})

	t.Run("malformed instance", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.pl")
		require.NoError(t, os.WriteFile(bad, []byte("task(1,[5],[1]).\n"), 0o600))

		_, _, err := executeCommand(t, "inspect", bad)
		require.ErrorIs(t, err, mcap.ErrMalformedInstance)
	})
}
