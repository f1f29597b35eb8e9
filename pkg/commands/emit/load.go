// Package emit holds the terminal command that hands finished records to the
// document loader.
package emit

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
)

// NewLoadDocumentCommand hands the record to the document loader. The loader
// owns identity assignment; this command only marks the end of the branch.
func NewLoadDocumentCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	return &loadDocumentCommand{
		id:       def.ID,
		key:      def.Key,
		deps:     deps,
		children: children,
	}, nil
}

type loadDocumentCommand struct {
	id       string
	key      string
	deps     models.Deps
	children []models.Command
}

func (c *loadDocumentCommand) GetID() string  { return c.id }
func (c *loadDocumentCommand) GetKey() string { return c.key }

func (c *loadDocumentCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	if err := c.deps.Loader.Load(ctx, rec); err != nil {
		return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key)
	}

	return models.Forward(ctx, rec, c.children)
}
