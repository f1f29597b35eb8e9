// Package extract defines the content-extraction boundary. The pipeline only
// depends on the Extractor interface; the docconv implementation covers the
// formats the indexer cares about (PDF, DOCX, HTML, plain text, ...).
package extract

import (
	"context"
	"io"
)

// Result is the extracted view of one input: the text body plus whatever
// metadata the extractor recovered (content type, author, dates, ...).
type Result struct {
	Body     string
	MIMEType string
	Metadata map[string]string
}

// Extractor turns a raw byte stream into text and metadata. The resource name
// is a hint (usually the path basename) used to guess the content type.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, resourceName string) (*Result, error)
}
