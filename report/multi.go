package report

import (
	"context"
	"errors"

	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// MultiSink writes every record to each of its sinks in order.
type MultiSink []types.RecordSink

var _ types.RecordSink = MultiSink(nil)

// Write forwards the record to every sink and joins their errors.
func (m MultiSink) Write(ctx context.Context, rec *types.CycleRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close closes every sink and joins their errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
