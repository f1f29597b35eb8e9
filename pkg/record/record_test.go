package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingVersusEmpty(t *testing.T) {
	rec := New()

	assert.Nil(t, rec.Get("missing"))
	assert.False(t, rec.Has("missing"))

	rec.Put("empty")
	assert.True(t, rec.Has("empty"))
	assert.NotNil(t, rec.Get("empty"))
	assert.Len(t, rec.Get("empty"), 0)
	assert.Nil(t, rec.First("empty"))
}

func TestPutReplacesAppendAdds(t *testing.T) {
	rec := New()

	rec.Put("tags", "a", "b")
	assert.Equal(t, []any{"a", "b"}, rec.Get("tags"))

	rec.Put("tags", "c")
	assert.Equal(t, []any{"c"}, rec.Get("tags"))

	rec.Append("tags", "d", "e")
	assert.Equal(t, []any{"c", "d", "e"}, rec.Get("tags"))

	rec.Append("fresh", 1)
	assert.Equal(t, []any{1}, rec.Get("fresh"))
}

func TestFirstAndContains(t *testing.T) {
	rec := New()
	rec.Put("tags", "hello", "world")

	assert.Equal(t, "hello", rec.First("tags"))
	assert.Equal(t, "hello", rec.FirstString("tags"))
	assert.True(t, rec.Contains("tags", "world"))
	assert.False(t, rec.Contains("tags", "nope"))

	rec.Put("count", 42)
	assert.Equal(t, "", rec.FirstString("count"))
}

func TestCloneIsIndependent(t *testing.T) {
	rec := New()
	rec.Put("name", "original")

	clone := rec.Clone()
	clone.Put("name", "changed")
	clone.Append("extra", true)

	assert.Equal(t, []any{"original"}, rec.Get("name"))
	assert.False(t, rec.Has("extra"))
}

func TestSnapshotDoesNotAliasRecord(t *testing.T) {
	rec := New()
	rec.Put("tags", "a")

	snapshot := rec.Snapshot()
	values := snapshot["tags"].([]any)
	values[0] = "mutated"

	assert.Equal(t, []any{"a"}, rec.Get("tags"))
}

func TestExternalStripsInternalFields(t *testing.T) {
	rec := New()
	rec.Put("id", "doc-1")
	rec.Put(FieldFileURI, "/data/a.txt")
	rec.Put(AttachmentBody, "raw bytes")
	rec.Put(AttachmentName, "a.txt")

	external := rec.External()
	assert.Contains(t, external, "id")
	assert.Contains(t, external, FieldFileURI)
	assert.NotContains(t, external, AttachmentBody)
	assert.NotContains(t, external, AttachmentName)

	rec.StripInternal()
	assert.False(t, rec.Has(AttachmentBody))
	assert.True(t, rec.Has("id"))
}

func TestFromMap(t *testing.T) {
	rec := FromMap(map[string]any{
		"tags":  []any{"x", "y"},
		"title": "single",
	})

	assert.Equal(t, []any{"x", "y"}, rec.Get("tags"))
	assert.Equal(t, []any{"single"}, rec.Get("title"))
	assert.Equal(t, []string{"tags", "title"}, rec.Names())
}
