package loader

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestSinkLoaderRewritesIdentity(t *testing.T) {
	out := sink.NewChannel(4)
	l := NewSinkLoader(out, Options{UniqueKeyField: "id", Policy: NewPrefix("LOAD-")}, noopLogger())

	doc := record.New()
	doc.Put("id", "/data/a.txt")
	doc.Put("text", "hello")
	doc.Put(record.AttachmentBody, "raw")

	require.NoError(t, l.Load(context.Background(), doc))

	messages := out.Drain()
	require.Len(t, messages, 1)
	assert.Equal(t, "LOAD-/data/a.txt", messages[0].Key)
	assert.Equal(t, []any{"LOAD-/data/a.txt"}, messages[0].Fields["id"])
	assert.Equal(t, []any{"hello"}, messages[0].Fields["text"])
	assert.NotContains(t, messages[0].Fields, record.AttachmentBody)
}

func TestSinkLoaderRequiresIdentity(t *testing.T) {
	out := sink.NewChannel(1)
	l := NewSinkLoader(out, Options{UniqueKeyField: "id"}, noopLogger())

	doc := record.New()
	doc.Put("text", "no identity here")

	err := l.Load(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity field")
}

func TestSinkLoaderTransactionMethodsAreNoOps(t *testing.T) {
	out := sink.NewChannel(1)
	l := NewSinkLoader(out, Options{UniqueKeyField: "id"}, noopLogger())

	ctx := context.Background()
	assert.NoError(t, l.BeginTransaction(ctx))
	assert.NoError(t, l.CommitTransaction(ctx))
	assert.NoError(t, l.Rollback(ctx))
	assert.NoError(t, l.Shutdown(ctx))
	assert.NoError(t, l.Ping(ctx))
}

func TestSinkLoaderDefaultsToPassthrough(t *testing.T) {
	out := sink.NewChannel(1)
	l := NewSinkLoader(out, Options{UniqueKeyField: "id"}, noopLogger())

	doc := record.New()
	doc.Put("id", "as-is")
	require.NoError(t, l.Load(context.Background(), doc))

	messages := out.Drain()
	require.Len(t, messages, 1)
	assert.Equal(t, "as-is", messages[0].Key)
}
