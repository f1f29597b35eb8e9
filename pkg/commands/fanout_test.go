package commands

import (
	"context"
	"testing"

	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fanOutTree builds a fan-out with one gated branch and one unconditional
// branch. The gate only passes records whose kind field contains "wanted".
func fanOutTree(t *testing.T, out *sink.Channel, anyOf bool) models.Command {
	t.Helper()
	chain, err := Build(models.Definition{
		ID:        "root",
		Key:       FanOutCommand,
		Arguments: map[string]any{"any_of": anyOf},
		Children: []models.Definition{
			{
				ID:  "gated-branch",
				Key: PipeCommand,
				Children: []models.Definition{
					{
						ID:        "gate",
						Key:       FieldContainsCommand,
						Arguments: map[string]any{"field": "kind", "value": "wanted"},
					},
					{
						ID:        "gated-mark",
						Key:       SetFieldCommand,
						Arguments: map[string]any{"field": "gated", "values": []any{"ran"}},
					},
				},
			},
			{
				ID:        "open-mark",
				Key:       SetFieldCommand,
				Arguments: map[string]any{"field": "open", "values": []any{"ran"}},
			},
		},
	}, testDeps(out))
	require.NoError(t, err)
	return chain
}

func TestFanOutRunsEveryBranch(t *testing.T) {
	chain := fanOutTree(t, sink.NewChannel(1), false)

	rec := record.New()
	rec.Put("kind", "unwanted")

	ok, err := chain.Process(context.Background(), rec)
	require.NoError(t, err)

	assert.False(t, ok, "all-of fan-out is false when a branch rejects")
	assert.False(t, rec.Has("gated"), "commands behind the gate never see the record")
	assert.True(t, rec.Has("open"), "sibling branches run regardless of the rejection")
}

func TestFanOutAllBranchesAccept(t *testing.T) {
	chain := fanOutTree(t, sink.NewChannel(1), false)

	rec := record.New()
	rec.Put("kind", "wanted")

	ok, err := chain.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rec.Has("gated"))
	assert.True(t, rec.Has("open"))
}

func TestFanOutAnyOf(t *testing.T) {
	chain := fanOutTree(t, sink.NewChannel(1), true)

	rec := record.New()
	rec.Put("kind", "unwanted")

	ok, err := chain.Process(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, ok, "any-of fan-out is true when one branch accepts")
}

type failingCommand struct{}

func (c *failingCommand) GetID() string  { return "boom" }
func (c *failingCommand) GetKey() string { return "boom" }
func (c *failingCommand) Process(_ context.Context, _ *record.Record) (bool, error) {
	return false, assert.AnError
}

func TestFanOutStopsOnError(t *testing.T) {
	cmd, err := NewFanOutCommand(models.Definition{ID: "root", Key: FanOutCommand}, models.Deps{}, []models.Command{
		&failingCommand{},
	})
	require.NoError(t, err)

	ok, err := cmd.Process(context.Background(), record.New())
	require.Error(t, err, "errors are failures, not rejections")
	assert.False(t, ok)
}

func TestEmptyFanOutAccepts(t *testing.T) {
	cmd, err := NewFanOutCommand(models.Definition{ID: "root", Key: FanOutCommand}, models.Deps{}, nil)
	require.NoError(t, err)

	ok, err := cmd.Process(context.Background(), record.New())
	require.NoError(t, err)
	assert.True(t, ok)
}
