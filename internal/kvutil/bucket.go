// Package kvutil provides helpers for creating JetStream streams and KeyValue
// buckets that several publishers may create concurrently.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const defaultRetries = 3

// EnsureKVBucketWithRetry creates or opens a KV bucket with retry logic.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Any error that occurred after all retries
//
// Example:
//
//	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "mcap-latest",
//	    History: 1,
//	}, 3)
func EnsureKVBucketWithRetry(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	maxRetries int,
) (jetstream.KeyValue, error) {
	return ensure(ctx, "KV bucket "+config.Bucket, maxRetries,
		func() (jetstream.KeyValue, error) { return js.CreateKeyValue(ctx, config) },
		jetstream.ErrBucketExists,
		func() (jetstream.KeyValue, error) { return js.KeyValue(ctx, config.Bucket) },
	)
}

// EnsureStreamWithRetry creates a stream or opens the existing one.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: Stream configuration
//   - maxRetries: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.Stream: The stream
//   - error: Any error that occurred after all retries
func EnsureStreamWithRetry(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.StreamConfig,
	maxRetries int,
) (jetstream.Stream, error) {
	return ensure(ctx, "stream "+config.Name, maxRetries,
		func() (jetstream.Stream, error) { return js.CreateStream(ctx, config) },
		jetstream.ErrStreamNameAlreadyInUse,
		func() (jetstream.Stream, error) { return js.Stream(ctx, config.Name) },
	)
}

// ensure retries create with exponential backoff and falls back to open when
// create reports that the resource exists.
func ensure[T any](
	ctx context.Context,
	what string,
	maxRetries int,
	create func() (T, error),
	exists error,
	open func() (T, error),
) (T, error) {
	var zero T
	if maxRetries <= 0 {
		maxRetries = defaultRetries
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		v, err := create()
		if err == nil {
			return v, nil
		}

		if errors.Is(err, exists) {
			v, err = open()
			if err == nil {
				return v, nil
			}
			lastErr = fmt.Errorf("%s exists but failed to open: %w", what, err)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return zero, fmt.Errorf("context cancelled during %s creation: %w", what, ctx.Err())
		}

		// 10ms, 20ms, 40ms...
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return zero, fmt.Errorf("failed to create/open %s after %d attempts: %w", what, maxRetries, lastErr)
}
