package content

import (
	"context"
	"testing"

	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fingerprintOf(t *testing.T, rec *record.Record, args map[string]any) string {
	t.Helper()
	cmd, err := NewFingerprintCommand(models.Definition{
		ID:        "fp",
		Key:       "fingerprint",
		Arguments: args,
	}, models.Deps{}, nil)
	require.NoError(t, err)

	_, err = cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	return rec.FirstString("fingerprint")
}

func TestFingerprintIsStable(t *testing.T) {
	a := record.New()
	a.Put("title", "hello")
	a.Put("tags", "x", "y")

	b := record.New()
	b.Put("tags", "x", "y")
	b.Put("title", "hello")

	fpA := fingerprintOf(t, a, nil)
	fpB := fingerprintOf(t, b, nil)

	assert.NotEmpty(t, fpA)
	assert.Equal(t, fpA, fpB, "field insertion order does not change the fingerprint")
}

func TestFingerprintIgnoresInternalFields(t *testing.T) {
	a := record.New()
	a.Put("title", "hello")

	b := record.New()
	b.Put("title", "hello")
	b.Put(record.AttachmentBody, "raw stream")

	assert.Equal(t, fingerprintOf(t, a, nil), fingerprintOf(t, b, nil))
}

func TestFingerprintSelectedFields(t *testing.T) {
	a := record.New()
	a.Put("title", "hello")
	a.Put("noise", "one")

	b := record.New()
	b.Put("title", "hello")
	b.Put("noise", "two")

	args := map[string]any{"fields": []any{"title"}}
	assert.Equal(t, fingerprintOf(t, a, args), fingerprintOf(t, b, args))
}

func TestFingerprintCustomTargetField(t *testing.T) {
	rec := record.New()
	rec.Put("title", "hello")

	cmd, err := NewFingerprintCommand(models.Definition{
		ID:        "fp",
		Key:       "fingerprint",
		Arguments: map[string]any{"target_field": "content_hash"},
	}, models.Deps{}, nil)
	require.NoError(t, err)

	_, err = cmd.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.FirstString("content_hash"))
}
