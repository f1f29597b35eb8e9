package chainconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ramsey-B/reed/pkg/commands"
	"github.com/Ramsey-B/reed/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidTree(t *testing.T) {
	def, err := Parse([]byte(`{
		"id": "root",
		"key": "pipe",
		"children": [
			{"id": "extract", "key": "extract_text", "arguments": {"body_field": "content"}},
			{"id": "load", "key": "load_document"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "root", def.ID)
	assert.Equal(t, "pipe", def.Key)
	require.Len(t, def.Children, 2)
	assert.Equal(t, "extract_text", def.Children[0].Key)
}

func TestParseRejectsMissingKey(t *testing.T) {
	_, err := Parse([]byte(`{"id": "root"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestParseRejectsUnknownProperties(t *testing.T) {
	_, err := Parse([]byte(`{"id": "root", "key": "pipe", "extra": true}`))
	require.Error(t, err)
}

func TestParseRejectsBadChildDeepInTree(t *testing.T) {
	_, err := Parse([]byte(`{
		"id": "root",
		"key": "pipe",
		"children": [
			{"id": "nested", "key": "pipe", "children": [{"id": "broken"}]}
		]
	}`))
	require.Error(t, err)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"id": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestLoadReadsFromFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "root", "key": "pipe"}`), 0o644))

	def, err := Load(context.Background(), vfs.NewLocal(), path)
	require.NoError(t, err)
	assert.Equal(t, "root", def.ID)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(context.Background(), vfs.NewLocal(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestDefaultChain(t *testing.T) {
	def := Default()

	assert.Equal(t, commands.PipeCommand, def.Key)
	require.Len(t, def.Children, 2)
	assert.Equal(t, commands.ExtractTextCommand, def.Children[0].Key)
	assert.Equal(t, commands.LoadDocumentCommand, def.Children[1].Key)
}
