package commands

import (
	"github.com/Ramsey-B/reed/pkg/commands/registry"
	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/utils"
)

// Build turns a definition tree into an executable chain. Children are built
// first, in configured order, so the same tree always yields a structurally
// identical chain. Unknown keys and invalid arguments fail here, at task
// setup, never at first invocation.
func Build(def models.Definition, deps models.Deps) (models.Command, error) {
	if _, err := utils.Validate(def); err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}

	children := make([]models.Command, 0, len(def.Children))
	for _, childDef := range def.Children {
		child, err := Build(childDef, deps)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	return registry.GetCommand(def, deps, children)
}
