package scripted

import (
	"context"
	"testing"

	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureCommand struct {
	seen []*record.Record
}

func (c *captureCommand) GetID() string  { return "capture" }
func (c *captureCommand) GetKey() string { return "capture" }

func (c *captureCommand) Process(_ context.Context, rec *record.Record) (bool, error) {
	c.seen = append(c.seen, rec)
	return true, nil
}

func scriptDeps() models.Deps {
	return models.Deps{Evaluator: script.NewEvaluator()}
}

func TestScriptFilterPassesMatchingRecords(t *testing.T) {
	capture := &captureCommand{}
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "filter",
		Key: "script",
		Arguments: map[string]any{
			"filter": "contains(tags, 'hello')",
			"set":    map[string]any{"tags": "[tags, ['world']][]"},
		},
	}, scriptDeps(), []models.Command{capture})
	require.NoError(t, err)

	rec := record.New()
	rec.Put("tags", "hello")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, capture.seen, 1)
	assert.Equal(t, []any{"hello", "world"}, rec.Get("tags"))
}

func TestScriptFilterDropsNonMatchingRecords(t *testing.T) {
	capture := &captureCommand{}
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "filter",
		Key: "script",
		Arguments: map[string]any{
			"filter": "contains(tags, 'hello')",
			"set":    map[string]any{"tags": "[tags, ['world']][]"},
		},
	}, scriptDeps(), []models.Command{capture})
	require.NoError(t, err)

	rec := record.New()
	rec.Put("tags", "goodbye")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, ok, "non-matching records are filtered, not errored")

	assert.Empty(t, capture.seen, "filtered records never reach children")
	assert.Equal(t, []any{"goodbye"}, rec.Get("tags"), "filtered records are left untouched")
}

func TestScriptSetScalarResult(t *testing.T) {
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "derive",
		Key: "script",
		Arguments: map[string]any{
			"set": map[string]any{"first_tag": "tags[0]"},
		},
	}, scriptDeps(), nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("tags", "alpha", "beta")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{"alpha"}, rec.Get("first_tag"))
}

func TestScriptSetNilResultRemovesField(t *testing.T) {
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "drop",
		Key: "script",
		Arguments: map[string]any{
			"set": map[string]any{"extra": "missing_field"},
		},
	}, scriptDeps(), nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("extra", "stale")

	_, err = cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, rec.Has("extra"))
}

func TestScriptSetExpressionsSeeEntrySnapshot(t *testing.T) {
	// Both sets read the original "a" regardless of which applies first.
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "swap",
		Key: "script",
		Arguments: map[string]any{
			"set": map[string]any{
				"a": "['replaced']",
				"b": "a",
			},
		},
	}, scriptDeps(), nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("a", "original")

	_, err = cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []any{"replaced"}, rec.Get("a"))
	assert.Equal(t, []any{"original"}, rec.Get("b"))
}

func TestScriptForwardFalseStopsChildren(t *testing.T) {
	capture := &captureCommand{}
	forward := false
	cmd, err := NewScriptCommand(models.Definition{
		ID:  "terminal",
		Key: "script",
		Arguments: ScriptArguments{
			Set:     map[string]string{"marked": "'yes'"},
			Forward: &forward,
		},
	}, scriptDeps(), []models.Command{capture})
	require.NoError(t, err)

	rec := record.New()
	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, capture.seen)
	assert.Equal(t, []any{"yes"}, rec.Get("marked"))
}

func TestScriptRejectsInvalidExpressionsAtBuild(t *testing.T) {
	_, err := NewScriptCommand(models.Definition{
		ID:  "broken",
		Key: "script",
		Arguments: map[string]any{
			"filter": "tags[", // unterminated
		},
	}, scriptDeps(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")

	_, err = NewScriptCommand(models.Definition{
		ID:  "broken",
		Key: "script",
		Arguments: map[string]any{
			"set": map[string]any{"out": "tags["},
		},
	}, scriptDeps(), nil)
	require.Error(t, err)
}

func TestScriptRequiresEvaluator(t *testing.T) {
	_, err := NewScriptCommand(models.Definition{
		ID:        "orphan",
		Key:       "script",
		Arguments: map[string]any{"filter": "tags"},
	}, models.Deps{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluator")
}
