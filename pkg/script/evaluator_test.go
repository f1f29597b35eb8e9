package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	e := NewEvaluator()
	data := map[string]any{
		"tags": []any{"hello", "world"},
		"size": float64(42),
	}

	result, err := e.Evaluate("tags[0]", data)
	require.NoError(t, err)
	assert.Equal(t, "hello", result)

	result, err = e.Evaluate("[tags, ['extra']][]", data)
	require.NoError(t, err)
	assert.Equal(t, []any{"hello", "world", "extra"}, result)
}

func TestEvaluateInvalidExpression(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate("tags[", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expression")
}

func TestEvaluateBool(t *testing.T) {
	e := NewEvaluator()
	data := map[string]any{
		"tags":  []any{"hello"},
		"empty": []any{},
		"name":  "reed",
		"zero":  float64(0),
	}

	cases := []struct {
		expression string
		want       bool
	}{
		{"contains(tags, 'hello')", true},
		{"contains(tags, 'nope')", false},
		{"tags", true},
		{"empty", false},
		{"name", true},
		{"zero", false},
		{"missing", false},
	}

	for _, tc := range cases {
		got, err := e.EvaluateBool(tc.expression, data)
		require.NoError(t, err, tc.expression)
		assert.Equal(t, tc.want, got, tc.expression)
	}
}

func TestValidate(t *testing.T) {
	e := NewEvaluator()

	assert.NoError(t, e.Validate("tags[0]"))
	assert.Error(t, e.Validate("tags["))
}

func TestCompileCacheIsReused(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate("tags", map[string]any{"tags": []any{"a"}})
	require.NoError(t, err)

	e.mu.RLock()
	_, cached := e.cache["tags"]
	e.mu.RUnlock()
	assert.True(t, cached)
}
