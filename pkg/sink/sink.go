// Package sink is the output boundary of the pipeline. Finished documents are
// handed to a Sink as (identity, fields) pairs; the durable hand-off point
// replaces a live connection to the index store, so the framework's own
// retry/replay semantics cover everything past Emit.
package sink

import "context"

// Message is one emitted document: its assigned identity and its external
// fields.
type Message struct {
	Key    string
	Fields map[string]any
}

// Sink receives finished documents. Implementations must be safe for
// concurrent Emit calls; tasks running in parallel share one sink.
type Sink interface {
	Emit(ctx context.Context, key string, fields map[string]any) error
	Ping(ctx context.Context) error
	Close() error
}
