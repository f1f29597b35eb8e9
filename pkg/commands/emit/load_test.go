package emit

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/reed/pkg/loader"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestLoadDocumentHandsRecordToLoader(t *testing.T) {
	out := sink.NewChannel(1)
	deps := models.Deps{
		Loader: loader.NewSinkLoader(out, loader.Options{UniqueKeyField: "id"}, noopLogger()),
	}

	cmd, err := NewLoadDocumentCommand(models.Definition{ID: "emit", Key: "load_document"}, deps, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("id", "doc-1")
	rec.Put(record.AttachmentBody, "raw")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)

	messages := out.Drain()
	require.Len(t, messages, 1)
	assert.Equal(t, "doc-1", messages[0].Key)
	assert.NotContains(t, messages[0].Fields, record.AttachmentBody)
}

func TestLoadDocumentAttributesLoaderFailures(t *testing.T) {
	deps := models.Deps{
		// Loading without an identity field fails.
		Loader: loader.NewSinkLoader(sink.NewChannel(1), loader.Options{UniqueKeyField: "id"}, noopLogger()),
	}

	cmd, err := NewLoadDocumentCommand(models.Definition{ID: "emit", Key: "load_document"}, deps, nil)
	require.NoError(t, err)

	_, err = cmd.Process(context.Background(), record.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command 'emit'")
}
