package commands

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
)

// NewPipeCommand composes its children as stages of one branch: each child
// runs only if the previous one accepted the record, and a false result
// short-circuits the rest of the pipe.
func NewPipeCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	return &pipeCommand{
		id:       def.ID,
		key:      def.Key,
		children: children,
	}, nil
}

type pipeCommand struct {
	id       string
	key      string
	children []models.Command
}

func (c *pipeCommand) GetID() string  { return c.id }
func (c *pipeCommand) GetKey() string { return c.key }

func (c *pipeCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	return models.Forward(ctx, rec, c.children)
}
