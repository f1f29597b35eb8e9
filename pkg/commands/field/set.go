// Package field holds the built-in commands that manipulate record fields
// directly.
package field

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type SetFieldArguments struct {
	Field  string `json:"field" validate:"required"`
	Values []any  `json:"values" validate:"omitempty"`
	Append bool   `json:"append" validate:"omitempty"`
}

func NewSetFieldCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[SetFieldArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	return &setFieldCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		children:   children,
	}, nil
}

type setFieldCommand struct {
	id         string
	key        string
	parsedArgs SetFieldArguments
	children   []models.Command
}

func (c *setFieldCommand) GetID() string  { return c.id }
func (c *setFieldCommand) GetKey() string { return c.key }

func (c *setFieldCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	if c.parsedArgs.Append {
		rec.Append(c.parsedArgs.Field, c.parsedArgs.Values...)
	} else {
		rec.Put(c.parsedArgs.Field, c.parsedArgs.Values...)
	}

	return models.Forward(ctx, rec, c.children)
}
