package field

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type DropFieldsArguments struct {
	Fields []string `json:"fields" validate:"required,min=1"`
}

func NewDropFieldsCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[DropFieldsArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	return &dropFieldsCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		children:   children,
	}, nil
}

type dropFieldsCommand struct {
	id         string
	key        string
	parsedArgs DropFieldsArguments
	children   []models.Command
}

func (c *dropFieldsCommand) GetID() string  { return c.id }
func (c *dropFieldsCommand) GetKey() string { return c.key }

func (c *dropFieldsCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	for _, name := range c.parsedArgs.Fields {
		rec.Remove(name)
	}

	return models.Forward(ctx, rec, c.children)
}
