// Package loader defines how finished documents leave the pipeline.
//
// DocumentLoader is shared between two very different implementations: the
// task-local SinkLoader, whose transaction methods are no-ops because the
// surrounding batch framework already provides atomic, replayable task output,
// and the streaming DirectLoader, which owns a real database transaction. The
// interface exists so the chain's terminal command does not care which one it
// is feeding.
package loader

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/record"
)

// DocumentLoader receives finished documents from the chain.
type DocumentLoader interface {
	Load(ctx context.Context, docs ...*record.Record) error
	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	Rollback(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Options carries the loader configuration the task resolves at setup. It is
// immutable after construction; the loader never reaches back into the task.
type Options struct {
	// UniqueKeyField names the document field holding the identity candidate.
	UniqueKeyField string
	// Policy rewrites the identity candidate into the final document key.
	Policy IdentityPolicy
}
