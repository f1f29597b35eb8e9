// Package scripted holds the expression-driven command. It lets a chain
// filter and reshape records with JMESPath expressions instead of dedicated
// command implementations.
package scripted

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type ScriptArguments struct {
	// Filter is evaluated against the record; a falsy result drops the
	// record without forwarding.
	Filter string `json:"filter" validate:"omitempty"`
	// Set maps field names to expressions whose results replace the field.
	Set map[string]string `json:"set" validate:"omitempty"`
	// Forward stops forwarding to children when explicitly false.
	Forward *bool `json:"forward" validate:"omitempty"`
}

func NewScriptCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[ScriptArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	if deps.Evaluator == nil {
		return nil, errors.NewPipelineError("script evaluator not configured").AddCommand(def.ID).AddKey(def.Key)
	}

	// Bad expressions fail the build, not the first record.
	if parsedArgs.Filter != "" {
		if err := deps.Evaluator.Validate(parsedArgs.Filter); err != nil {
			return nil, errors.NewPipelineErrorf("invalid filter expression: %w", err).AddCommand(def.ID).AddKey(def.Key)
		}
	}
	for field, expression := range parsedArgs.Set {
		if err := deps.Evaluator.Validate(expression); err != nil {
			return nil, errors.NewPipelineErrorf("invalid expression for field %s: %w", field, err).AddCommand(def.ID).AddKey(def.Key)
		}
	}

	return &scriptCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		deps:       deps,
		children:   children,
	}, nil
}

type scriptCommand struct {
	id         string
	key        string
	parsedArgs ScriptArguments
	deps       models.Deps
	children   []models.Command
}

func (c *scriptCommand) GetID() string  { return c.id }
func (c *scriptCommand) GetKey() string { return c.key }

func (c *scriptCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	snapshot := rec.Snapshot()

	if c.parsedArgs.Filter != "" {
		ok, err := c.deps.Evaluator.EvaluateBool(c.parsedArgs.Filter, snapshot)
		if err != nil {
			return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key)
		}
		if !ok {
			return false, nil
		}
	}

	if len(c.parsedArgs.Set) > 0 {
		// Every expression sees the record as it was on entry; set order
		// does not matter.
		results := make(map[string]any, len(c.parsedArgs.Set))
		for field, expression := range c.parsedArgs.Set {
			result, err := c.deps.Evaluator.Evaluate(expression, snapshot)
			if err != nil {
				return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key)
			}
			results[field] = result
		}

		for field, result := range results {
			switch values := result.(type) {
			case nil:
				rec.Remove(field)
			case []any:
				rec.Put(field, values...)
			default:
				rec.Put(field, values)
			}
		}
	}

	if c.parsedArgs.Forward != nil && !*c.parsedArgs.Forward {
		return true, nil
	}

	return models.Forward(ctx, rec, c.children)
}
