package content

import (
	"context"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/fingerprint"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type FingerprintArguments struct {
	// Fields selects which fields feed the fingerprint. Empty means every
	// external field.
	Fields []string `json:"fields" validate:"omitempty"`
	// TargetField receives the fingerprint. Defaults to "fingerprint".
	TargetField string `json:"target_field" validate:"omitempty"`
}

const defaultTargetField = "fingerprint"

func NewFingerprintCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[FingerprintArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}
	if parsedArgs.TargetField == "" {
		parsedArgs.TargetField = defaultTargetField
	}

	return &fingerprintCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		children:   children,
	}, nil
}

type fingerprintCommand struct {
	id         string
	key        string
	parsedArgs FingerprintArguments
	children   []models.Command
}

func (c *fingerprintCommand) GetID() string  { return c.id }
func (c *fingerprintCommand) GetKey() string { return c.key }

func (c *fingerprintCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	var data map[string]any
	if len(c.parsedArgs.Fields) == 0 {
		data = rec.External()
	} else {
		data = make(map[string]any, len(c.parsedArgs.Fields))
		for _, name := range c.parsedArgs.Fields {
			if rec.Has(name) {
				data[name] = rec.Get(name)
			}
		}
	}

	rec.Put(c.parsedArgs.TargetField, fingerprint.Generate(data))

	return models.Forward(ctx, rec, c.children)
}
