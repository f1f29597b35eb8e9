package models

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/reed/pkg/extract"
	"github.com/Ramsey-B/reed/pkg/loader"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/schema"
	"github.com/Ramsey-B/reed/pkg/script"
)

// Definition is one node of the declarative chain configuration.
//
// Example JSON:
//
//	{
//	  "id": "root",
//	  "key": "pipe",
//	  "children": [
//	    {"id": "extract", "key": "extract_text"},
//	    {"id": "emit", "key": "load_document"}
//	  ]
//	}
//
// With arguments:
//
//	{
//	  "id": "tag_source",
//	  "key": "set_field",
//	  "arguments": {"field": "source", "values": ["batch"]}
//	}
type Definition struct {
	ID        string       `json:"id" validate:"required"`             // Unique identifier for this node
	Key       string       `json:"key" validate:"required"`            // Command identifier (e.g., "extract_text")
	Arguments any          `json:"arguments" validate:"omitempty"`     // Static arguments for the command
	Children  []Definition `json:"children" validate:"omitempty,dive"` // Child nodes, in forwarding order
}

// Command is a single step of the chain. Process returns true when the record
// was accepted and forwarded, false when the command filtered it out. A false
// return short-circuits the rest of that branch; it is not an error. An error
// return is a processing failure and is attributed to the raising command.
type Command interface {
	GetID() string
	GetKey() string
	Process(ctx context.Context, rec *record.Record) (bool, error)
}

// Deps are the shared collaborators command factories may capture. The chain
// builder passes one Deps value through the whole build.
type Deps struct {
	Logger    ectologger.Logger
	Loader    loader.DocumentLoader
	Extractor extract.Extractor
	Schema    schema.Resolver
	Evaluator *script.Evaluator
}

// Forward runs the children of one branch in order. A false child result
// short-circuits the remaining children and propagates false; an error aborts
// immediately. Commands that are not fan-out nodes forward this way.
func Forward(ctx context.Context, rec *record.Record, children []Command) (bool, error) {
	for _, child := range children {
		ok, err := child.Process(ctx, rec)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
