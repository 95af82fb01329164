package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mcaptest "github.com/HelgeS/mcap-rotational-diversity/testing"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

func TestNATSPublisher(t *testing.T) {
	_, nc := mcaptest.StartEmbeddedNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pub, err := NewNATSPublisher(ctx, nc, NATSConfig{SubjectPrefix: "lab"}, WithLogger(mcaptest.NewTestLogger(t)))
	require.NoError(t, err)
	defer func() { require.NoError(t, pub.Close()) }()

	first := sampleRecord()
	first.Cycle = 1
	second := sampleRecord()

	require.Equal(t, "lab.small.switch3", pub.Subject(second))
	require.NoError(t, pub.Write(ctx, first))
	require.NoError(t, pub.Write(ctx, second))

	t.Run("latest record per run", func(t *testing.T) {
		latest, err := pub.Latest(ctx, "run-1")
		require.NoError(t, err)
		require.Equal(t, 2, latest.Cycle)
		require.Equal(t, second.Assignment, latest.Assignment)
		require.Equal(t, second.TaskAgents, latest.TaskAgents)
		require.Equal(t, second.SolveDuration, latest.SolveDuration)
	})

	t.Run("stream keeps every record", func(t *testing.T) {
		js := mcaptest.NewJetStream(t, nc)
		stream, err := js.Stream(ctx, "MCAP_RECORDS")
		require.NoError(t, err)
		info, err := stream.Info(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), info.State.Msgs)
	})

	t.Run("reopens existing stream and bucket", func(t *testing.T) {
		again, err := NewNATSPublisher(ctx, nc, NATSConfig{SubjectPrefix: "lab"})
		require.NoError(t, err)
		latest, err := again.Latest(ctx, "run-1")
		require.NoError(t, err)
		require.Equal(t, 2, latest.Cycle)
	})

	t.Run("sanitizes subject tokens", func(t *testing.T) {
		rec := &types.CycleRecord{Instance: "set.a b", Strategy: "switch0.5"}
		require.Equal(t, "lab.set_a_b.switch0_5", pub.Subject(rec))
	})
}

func TestNewNATSPublisher_RequiresConnection(t *testing.T) {
	_, err := NewNATSPublisher(context.Background(), nil, NATSConfig{})
	require.Error(t, err)
}
