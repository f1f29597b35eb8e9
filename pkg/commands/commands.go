package commands

import (
	"github.com/Ramsey-B/reed/pkg/commands/content"
	"github.com/Ramsey-B/reed/pkg/commands/emit"
	"github.com/Ramsey-B/reed/pkg/commands/field"
	"github.com/Ramsey-B/reed/pkg/commands/registry"
	"github.com/Ramsey-B/reed/pkg/commands/scripted"
)

const (
	// Structural Command Keys
	PipeCommand   = "pipe"
	FanOutCommand = "fanout"

	// Field Command Keys
	SetFieldCommand      = "set_field"
	FieldContainsCommand = "field_contains"
	DropFieldsCommand    = "drop_fields"

	// Content Command Keys
	ExtractTextCommand = "extract_text"
	FingerprintCommand = "fingerprint"

	// Script Command Keys
	ScriptCommand = "script"

	// Emit Command Keys
	LoadDocumentCommand = "load_document"
)

type CommandDefinition struct {
	Key         string           `json:"key" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Factory     registry.Factory `json:"-"`
}

var CommandDefinitions = map[string]CommandDefinition{
	// Structural Command Keys
	PipeCommand: {
		Key:         PipeCommand,
		Name:        "Pipe",
		Description: "Runs children as sequential stages; a rejection stops the rest",
		Factory:     NewPipeCommand,
	},
	FanOutCommand: {
		Key:         FanOutCommand,
		Name:        "Fan Out",
		Description: "Runs every child as an independent branch",
		Factory:     NewFanOutCommand,
	},

	// Field Command Keys
	SetFieldCommand: {
		Key:         SetFieldCommand,
		Name:        "Set Field",
		Description: "Sets or appends static values on a field",
		Factory:     field.NewSetFieldCommand,
	},
	FieldContainsCommand: {
		Key:         FieldContainsCommand,
		Name:        "Field Contains",
		Description: "Accepts the record only when a field contains a value",
		Factory:     field.NewFieldContainsCommand,
	},
	DropFieldsCommand: {
		Key:         DropFieldsCommand,
		Name:        "Drop Fields",
		Description: "Removes fields from the record",
		Factory:     field.NewDropFieldsCommand,
	},

	// Content Command Keys
	ExtractTextCommand: {
		Key:         ExtractTextCommand,
		Name:        "Extract Text",
		Description: "Extracts text and metadata from the attached raw content",
		Factory:     content.NewExtractTextCommand,
	},
	FingerprintCommand: {
		Key:         FingerprintCommand,
		Name:        "Fingerprint",
		Description: "Adds a content hash field for downstream deduplication",
		Factory:     content.NewFingerprintCommand,
	},

	// Script Command Keys
	ScriptCommand: {
		Key:         ScriptCommand,
		Name:        "Script",
		Description: "Filters and reshapes records with JMESPath expressions",
		Factory:     scripted.NewScriptCommand,
	},

	// Emit Command Keys
	LoadDocumentCommand: {
		Key:         LoadDocumentCommand,
		Name:        "Load Document",
		Description: "Hands the record to the document loader",
		Factory:     emit.NewLoadDocumentCommand,
	},
}
