// Package testutil provides shared fixtures and assertion helpers for
// simulator tests.
//
// Examples of utilities that belong here:
//   - Instance generators (random but reproducible instances)
//   - Assertion helpers (record consistency, affinity counters)
//
// Note: For a NATS JetStream server, use the
// github.com/HelgeS/mcap-rotational-diversity/testing package.
package testutil
