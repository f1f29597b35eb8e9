// Package chainconf loads the declarative chain configuration. A
// configuration is a JSON tree of command definitions; it is validated against
// an embedded JSON Schema before it is handed to the chain builder, so
// malformed trees fail with a schema path instead of a build error deep in the
// tree.
package chainconf

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Ramsey-B/reed/pkg/commands"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/vfs"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("chainconf/schema.json", schemaJSON)

// Parse validates raw configuration bytes and unmarshals them into a
// definition tree.
func Parse(data []byte) (models.Definition, error) {
	var def models.Definition

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("chain configuration is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return def, fmt.Errorf("chain configuration does not match schema: %w", err)
	}

	if err := json.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("failed to unmarshal chain configuration: %w", err)
	}
	return def, nil
}

// Load reads and parses the configuration at the given location.
func Load(ctx context.Context, fsys vfs.FileSystem, location string) (models.Definition, error) {
	rc, err := fsys.Open(ctx, location)
	if err != nil {
		return models.Definition{}, fmt.Errorf("failed to open chain configuration %s: %w", location, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return models.Definition{}, fmt.Errorf("failed to read chain configuration %s: %w", location, err)
	}

	return Parse(data)
}

// Default is the chain used when no configuration is provided: extract text
// from the attachment, then load the document.
func Default() models.Definition {
	return models.Definition{
		ID:  "root",
		Key: commands.PipeCommand,
		Children: []models.Definition{
			{ID: "extract", Key: commands.ExtractTextCommand},
			{ID: "load", Key: commands.LoadDocumentCommand},
		},
	}
}
