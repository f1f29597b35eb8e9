package registry

import (
	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
)

// Factory builds a command from its definition, the shared dependencies, and
// its already-built children.
type Factory func(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error)

var Commands = map[string]Factory{}

func GetCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	factory, ok := Commands[def.Key]
	if !ok {
		return nil, errors.NewPipelineError("command not found").AddCommand(def.ID).AddKey(def.Key)
	}
	return factory(def, deps, children)
}
