package field

import (
	"context"
	"testing"

	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldReplaces(t *testing.T) {
	cmd, err := NewSetFieldCommand(models.Definition{
		ID:        "tag",
		Key:       "set_field",
		Arguments: map[string]any{"field": "source", "values": []any{"batch"}},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("source", "stale")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{"batch"}, rec.Get("source"))
}

func TestSetFieldAppends(t *testing.T) {
	cmd, err := NewSetFieldCommand(models.Definition{
		ID:        "tag",
		Key:       "set_field",
		Arguments: map[string]any{"field": "tags", "values": []any{"extra"}, "append": true},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("tags", "existing")

	_, err = cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []any{"existing", "extra"}, rec.Get("tags"))
}

func TestSetFieldRequiresFieldName(t *testing.T) {
	_, err := NewSetFieldCommand(models.Definition{
		ID:        "tag",
		Key:       "set_field",
		Arguments: map[string]any{"values": []any{"batch"}},
	}, models.Deps{}, nil)
	require.Error(t, err)
}

func TestFieldContains(t *testing.T) {
	cmd, err := NewFieldContainsCommand(models.Definition{
		ID:        "gate",
		Key:       "field_contains",
		Arguments: map[string]any{"field": "kind", "value": "wanted"},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("kind", "other", "wanted")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFieldContainsRejectsWithoutError(t *testing.T) {
	cmd, err := NewFieldContainsCommand(models.Definition{
		ID:        "gate",
		Key:       "field_contains",
		Arguments: map[string]any{"field": "kind", "value": "wanted"},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("kind", "other")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, ok)

	// A missing field rejects the same way.
	ok, err = cmd.Process(context.Background(), record.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDropFields(t *testing.T) {
	cmd, err := NewDropFieldsCommand(models.Definition{
		ID:        "scrub",
		Key:       "drop_fields",
		Arguments: map[string]any{"fields": []any{"secret", "missing"}},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	rec := record.New()
	rec.Put("secret", "value")
	rec.Put("kept", "value")

	ok, err := cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, rec.Has("secret"))
	assert.True(t, rec.Has("kept"))
}

func TestDropFieldsRequiresAtLeastOne(t *testing.T) {
	_, err := NewDropFieldsCommand(models.Definition{
		ID:        "scrub",
		Key:       "drop_fields",
		Arguments: map[string]any{"fields": []any{}},
	}, models.Deps{}, nil)
	require.Error(t, err)
}
