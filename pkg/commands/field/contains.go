package field

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type FieldContainsArguments struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value" validate:"required"`
}

// NewFieldContainsCommand is a condition: the record passes only when the
// named field's value list contains the required value.
func NewFieldContainsCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[FieldContainsArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	return &fieldContainsCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		children:   children,
	}, nil
}

type fieldContainsCommand struct {
	id         string
	key        string
	parsedArgs FieldContainsArguments
	children   []models.Command
}

func (c *fieldContainsCommand) GetID() string  { return c.id }
func (c *fieldContainsCommand) GetKey() string { return c.key }

func (c *fieldContainsCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	if !rec.Contains(c.parsedArgs.Field, c.parsedArgs.Value) {
		return false, nil
	}

	return models.Forward(ctx, rec, c.children)
}
