package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBScan(t *testing.T) {
	var col JSONB[map[string]any]
	require.NoError(t, col.Scan([]byte(`{"title": ["hello"]}`)))
	assert.Equal(t, map[string]any{"title": []any{"hello"}}, col.GetValue())
}

func TestJSONBScanRejectsNonBytes(t *testing.T) {
	var col JSONB[map[string]any]
	err := col.Scan(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected []byte")
}

func TestJSONBValue(t *testing.T) {
	col := JSONB[map[string]any]{Data: map[string]any{"n": float64(1)}}

	v, err := col.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(v.([]byte)))
}
