package commands

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type FanOutArguments struct {
	// AnyOf accepts the record when any child accepted it. The default is
	// all-children-must-accept.
	AnyOf bool `json:"any_of" validate:"omitempty"`
}

// NewFanOutCommand runs its children as independent branches: every child sees
// the record regardless of what earlier siblings returned. The node's result
// is the AND of child results, or the OR when any_of is set.
func NewFanOutCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[FanOutArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	return &fanOutCommand{
		id:       def.ID,
		key:      def.Key,
		anyOf:    parsedArgs.AnyOf,
		children: children,
	}, nil
}

type fanOutCommand struct {
	id       string
	key      string
	anyOf    bool
	children []models.Command
}

func (c *fanOutCommand) GetID() string  { return c.id }
func (c *fanOutCommand) GetKey() string { return c.key }

func (c *fanOutCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	accepted := 0
	for _, child := range c.children {
		ok, err := child.Process(ctx, rec)
		if err != nil {
			return false, err
		}
		if ok {
			accepted++
		}
	}

	if c.anyOf {
		return accepted > 0, nil
	}
	return accepted == len(c.children), nil
}
