// Package testing provides test utilities for the mcap module.
//
// This package offers helpers for setting up test environments, in particular
// an embedded NATS server with JetStream for the record publisher. It follows
// Go's convention of providing testing utilities in a dedicated package
// (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - NewJetStream: JetStream handle bound to the test connection
//   - NewTestLogger: Logger writing to the test log
//
// Example usage:
//
//	import (
//	    "testing"
//	    mcaptest "github.com/HelgeS/mcap-rotational-diversity/testing"
//	)
//
//	func TestPublisher(t *testing.T) {
//	    _, nc := mcaptest.StartEmbeddedNATS(t)
//	    js := mcaptest.NewJetStream(t, nc)
//	}
package testing
