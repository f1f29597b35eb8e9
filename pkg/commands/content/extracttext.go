// Package content holds the built-in commands that derive new fields from the
// record's raw attachment: text extraction and fingerprinting.
package content

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/Ramsey-B/reed/pkg/errors"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/record"
	"github.com/Ramsey-B/reed/pkg/schema"
	"github.com/Ramsey-B/reed/pkg/utils"
)

type ExtractTextArguments struct {
	// BodyField receives the extracted text. Defaults to "text".
	BodyField string `json:"body_field" validate:"omitempty"`
	// MetadataPrefix is prepended to every extractor metadata key.
	MetadataPrefix string `json:"metadata_prefix" validate:"omitempty"`
	// NormalizeDates rewrites metadata values that parse as one of the
	// schema's accepted date layouts to RFC3339 UTC.
	NormalizeDates bool `json:"normalize_dates" validate:"omitempty"`
}

const defaultBodyField = "text"

// NewExtractTextCommand runs the content extractor over the record's
// attachment stream and writes the text body and metadata onto the record.
func NewExtractTextCommand(def models.Definition, deps models.Deps, children []models.Command) (models.Command, error) {
	parsedArgs, err := utils.ValidateArguments[ExtractTextArguments](def.Arguments)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddCommand(def.ID).AddKey(def.Key)
	}
	if parsedArgs.BodyField == "" {
		parsedArgs.BodyField = defaultBodyField
	}

	return &extractTextCommand{
		id:         def.ID,
		key:        def.Key,
		parsedArgs: parsedArgs,
		deps:       deps,
		children:   children,
	}, nil
}

type extractTextCommand struct {
	id         string
	key        string
	parsedArgs ExtractTextArguments
	deps       models.Deps
	children   []models.Command
}

func (c *extractTextCommand) GetID() string  { return c.id }
func (c *extractTextCommand) GetKey() string { return c.key }

func (c *extractTextCommand) Process(ctx context.Context, rec *record.Record) (bool, error) {
	reader, err := attachmentReader(rec)
	if err != nil {
		return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key).AddCategory("extract")
	}
	resourceName := rec.FirstString(record.AttachmentName)

	start := time.Now()
	result, err := c.deps.Extractor.Extract(ctx, reader, resourceName)
	metrics.RecordExtraction(time.Since(start).Seconds())
	if err != nil {
		return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key).AddCategory("extract")
	}

	rec.Put(c.parsedArgs.BodyField, result.Body)
	if result.MIMEType != "" {
		rec.Put("content_type", result.MIMEType)
	}

	var formats []string
	if c.parsedArgs.NormalizeDates {
		formats, err = c.deps.Schema.DateFormats(ctx)
		if err != nil {
			return false, errors.WrapPipelineError(err).AddCommand(c.id).AddKey(c.key).AddCategory("extract")
		}
	}

	for name, value := range result.Metadata {
		if c.parsedArgs.NormalizeDates {
			if normalized, ok := schema.NormalizeDate(value, formats); ok {
				value = normalized
			}
		}
		rec.Put(c.parsedArgs.MetadataPrefix+name, value)
	}

	return models.Forward(ctx, rec, c.children)
}

// attachmentReader accepts the attachment body as a stream, raw bytes, or a
// string, so tests and replayed records work the same as live streams.
func attachmentReader(rec *record.Record) (io.Reader, error) {
	switch body := rec.First(record.AttachmentBody).(type) {
	case io.Reader:
		return body, nil
	case []byte:
		return bytes.NewReader(body), nil
	case string:
		return strings.NewReader(body), nil
	case nil:
		return nil, errors.NewPipelineError("record has no attachment body")
	default:
		return nil, errors.NewPipelineErrorf("unsupported attachment body type %T", body)
	}
}
