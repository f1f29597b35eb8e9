package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertRow struct {
	ID       string                `db:"id"`
	Fields   JSONB[map[string]any] `db:"fields"`
	LoadedAt time.Time             `db:"loaded_at"`
}

func TestStructUpsertSQL(t *testing.T) {
	row := upsertRow{
		ID:       "doc-1",
		Fields:   JSONB[map[string]any]{Data: map[string]any{"title": "hello"}},
		LoadedAt: time.Now().UTC(),
	}

	s := NewStruct(new(upsertRow))
	ib := s.InsertInto("documents", row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("fields", Excluded("fields")),
		ub.Assign("loaded_at", Excluded("loaded_at")),
	)

	sql, args := ib.Build()

	assert.Contains(t, sql, "INSERT INTO documents")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, sql, "EXCLUDED.fields")
	assert.Contains(t, sql, "EXCLUDED.loaded_at")
	require.Len(t, args, 3)
	assert.Equal(t, "doc-1", args[0])
}

func TestInsertBuilderOnConflictDoNothing(t *testing.T) {
	ib := NewInsertBuilder().InsertInto("documents").Cols("id").Values("doc-1").OnConflictDoNothing()

	sql, args := ib.Build()
	assert.Contains(t, sql, "ON CONFLICT DO NOTHING")
	assert.Len(t, args, 1)
}

func TestStructSelect(t *testing.T) {
	s := NewStruct(new(upsertRow))
	sb := s.SelectFrom("documents")
	sb.Where(sb.Equal("id", "doc-1"))

	sql, args := sb.Build()
	assert.Contains(t, sql, "SELECT")
	assert.Contains(t, sql, "FROM documents")
	assert.Equal(t, []interface{}{"doc-1"}, args)
}
