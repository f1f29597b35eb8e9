package extract

import (
	"context"
	"fmt"
	"io"

	"code.sajari.com/docconv"
	"github.com/Gobusters/ectologger"
)

// DocconvExtractor extracts text and metadata with docconv, choosing the
// converter from the resource-name extension.
type DocconvExtractor struct {
	logger         ectologger.Logger
	useReadability bool
}

func NewDocconvExtractor(logger ectologger.Logger, useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{
		logger:         logger,
		useReadability: useReadability,
	}
}

func (e *DocconvExtractor) Extract(ctx context.Context, r io.Reader, resourceName string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := docconv.MimeTypeByExtension(resourceName)

	res, err := docconv.Convert(r, mimeType, e.useReadability)
	if err != nil {
		return nil, fmt.Errorf("failed to extract '%s' as %s: %w", resourceName, mimeType, err)
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"resource":  resourceName,
		"mime_type": mimeType,
		"millis":    res.MSecs,
	}).Debugf("Extracted %d bytes of text from '%s'", len(res.Body), resourceName)

	return &Result{
		Body:     res.Body,
		MIMEType: mimeType,
		Metadata: res.Meta,
	}, nil
}
