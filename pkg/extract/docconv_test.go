package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestExtractPlainText(t *testing.T) {
	extractor := NewDocconvExtractor(noopLogger(), false)

	result, err := extractor.Extract(context.Background(), strings.NewReader("hello world"), "note.txt")
	require.NoError(t, err)

	assert.Equal(t, "hello world", result.Body)
	assert.Equal(t, "text/plain", result.MIMEType)
}

func TestExtractUnknownExtensionFallsBackToPlainText(t *testing.T) {
	extractor := NewDocconvExtractor(noopLogger(), false)

	result, err := extractor.Extract(context.Background(), strings.NewReader("raw bytes"), "archive.unknown")
	require.NoError(t, err)

	assert.Equal(t, "text/plain", result.MIMEType)
	assert.Equal(t, "raw bytes", result.Body)
}

func TestExtractCancelledContext(t *testing.T) {
	extractor := NewDocconvExtractor(noopLogger(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.Extract(ctx, strings.NewReader("hello"), "note.txt")
	require.Error(t, err)
}
