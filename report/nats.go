package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/HelgeS/mcap-rotational-diversity/internal/kvutil"
	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// NATSConfig configures a NATSPublisher.
type NATSConfig struct {
	// SubjectPrefix is the first subject token (default "mcap").
	SubjectPrefix string `yaml:"subjectPrefix"`

	// Stream is the JetStream stream capturing <prefix>.> (default "MCAP_RECORDS").
	Stream string `yaml:"stream"`

	// Bucket is the KV bucket holding the latest record per run (default "mcap-latest").
	Bucket string `yaml:"bucket"`

	// Timeout bounds each publish and KV put (default 5s).
	Timeout time.Duration `yaml:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *NATSConfig) ApplyDefaults() {
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "mcap"
	}
	if c.Stream == "" {
		c.Stream = "MCAP_RECORDS"
	}
	if c.Bucket == "" {
		c.Bucket = "mcap-latest"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// NATSPublisher publishes cycle records as JSON.
//
// Each record goes to the subject <prefix>.<instance>.<strategy> and is
// stored under the run id in the KV bucket, so the bucket always holds the
// most recent cycle of every run. The connection is owned by the caller.
type NATSPublisher struct {
	js     jetstream.JetStream
	kv     jetstream.KeyValue
	cfg    NATSConfig
	logger types.Logger
}

var _ types.RecordSink = (*NATSPublisher)(nil)

// PublisherOption configures a NATSPublisher.
type PublisherOption func(*NATSPublisher)

// WithLogger sets the publisher logger.
func WithLogger(logger types.Logger) PublisherOption {
	return func(p *NATSPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewNATSPublisher ensures the stream and bucket exist and returns a publisher.
//
// Parameters:
//   - ctx: Context bounding stream and bucket creation
//   - nc: Connected NATS client
//   - cfg: Publisher configuration; zero fields take defaults
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *NATSPublisher: The publisher
//   - error: JetStream errors
//
// Example:
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	pub, err := report.NewNATSPublisher(ctx, nc, report.NATSConfig{SubjectPrefix: "lab"})
//	sim, err := mcap.NewSimulator(cfg, inst, strat, mcap.WithRecordSink(pub))
func NewNATSPublisher(ctx context.Context, nc *nats.Conn, cfg NATSConfig, opts ...PublisherOption) (*NATSPublisher, error) {
	if nc == nil {
		return nil, errors.New("nats connection is required")
	}
	cfg.ApplyDefaults()

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	if _, err := kvutil.EnsureStreamWithRetry(ctx, js, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	}, 3); err != nil {
		return nil, err
	}

	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:  cfg.Bucket,
		History: 1,
	}, 3)
	if err != nil {
		return nil, err
	}

	p := &NATSPublisher{js: js, kv: kv, cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Subject returns the subject a record is published to.
func (p *NATSPublisher) Subject(rec *types.CycleRecord) string {
	return p.cfg.SubjectPrefix + "." + token(rec.Instance) + "." + token(rec.Strategy)
}

// key returns the KV key for a record's run.
func key(rec *types.CycleRecord) string {
	if rec.RunID != "" {
		return token(rec.RunID)
	}

	return token(rec.Instance) + "." + token(rec.Strategy)
}

// token replaces characters that are not valid in a subject token or KV key.
func token(s string) string {
	if s == "" {
		return "_"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Write publishes the record and updates the latest-record entry.
func (p *NATSPublisher) Write(ctx context.Context, rec *types.CycleRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	subject := p.Subject(rec)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish record to %s: %w", subject, err)
	}
	if _, err := p.kv.Put(ctx, key(rec), data); err != nil {
		return fmt.Errorf("store latest record: %w", err)
	}

	p.logger.Debug("record published", "subject", subject, "cycle", rec.Cycle)

	return nil
}

// Latest returns the most recent record stored for a run id.
func (p *NATSPublisher) Latest(ctx context.Context, runID string) (*types.CycleRecord, error) {
	entry, err := p.kv.Get(ctx, token(runID))
	if err != nil {
		return nil, fmt.Errorf("get latest record: %w", err)
	}

	var rec types.CycleRecord
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	return &rec, nil
}

// Close is a no-op; the NATS connection belongs to the caller.
func (p *NATSPublisher) Close() error {
	return nil
}
