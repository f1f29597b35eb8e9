// Package schema is the boundary to the index schema. The pipeline needs two
// facts from it: the name of the unique-identity field documents are keyed by,
// and the set of date layouts the index accepts. Loading and parsing the
// actual schema lives outside this module.
package schema

import (
	"context"
	"time"
)

// Resolver supplies index-schema facts to the pipeline.
type Resolver interface {
	UniqueKeyField(ctx context.Context) (string, error)
	DateFormats(ctx context.Context) ([]string, error)
}

// DefaultUniqueKeyField is used when the schema does not override it.
const DefaultUniqueKeyField = "id"

// DefaultDateFormats are the layouts accepted when the schema does not
// override them.
var DefaultDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Static is a Resolver with fixed answers, built from configuration.
type Static struct {
	uniqueKeyField string
	dateFormats    []string
}

func NewStatic(uniqueKeyField string, dateFormats []string) *Static {
	if uniqueKeyField == "" {
		uniqueKeyField = DefaultUniqueKeyField
	}
	if len(dateFormats) == 0 {
		dateFormats = DefaultDateFormats
	}
	return &Static{
		uniqueKeyField: uniqueKeyField,
		dateFormats:    dateFormats,
	}
}

func (s *Static) UniqueKeyField(ctx context.Context) (string, error) {
	return s.uniqueKeyField, nil
}

func (s *Static) DateFormats(ctx context.Context) ([]string, error) {
	formats := make([]string, len(s.dateFormats))
	copy(formats, s.dateFormats)
	return formats, nil
}

// ParseDate tries each layout in order and reports whether any matched.
func ParseDate(value string, formats []string) (time.Time, bool) {
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a date string to RFC3339 UTC if any accepted layout
// matches; otherwise it returns the input unchanged.
func NormalizeDate(value string, formats []string) (string, bool) {
	t, ok := ParseDate(value, formats)
	if !ok {
		return value, false
	}
	return t.UTC().Format(time.RFC3339), true
}
