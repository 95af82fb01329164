// Package report provides types.RecordSink implementations for cycle records.
//
//   - CSVWriter writes the per-cycle log and the assignment matrix as
//     semicolon-separated files.
//   - NATSPublisher publishes every record to a JetStream stream and keeps the
//     latest record of each run in a KeyValue bucket.
//   - MultiSink fans a record out to several sinks.
//
// Rotations evaluates how a finished run rotated every task over its agents.
package report
