// Package record defines the mutable, multi-valued field container that flows
// through the command chain.
//
// A Record maps field names to lists of values. The distinction between a
// missing field and a present field with no values is meaningful and preserved
// by every operation: Get returns nil for a missing field and an empty slice
// for a present-but-empty one.
//
// Records are not safe for concurrent use. Ownership passes along the chain;
// only the currently-executing command may read or write an in-flight record.
package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Gobusters/ectolinq"
)

// Well-known field names. Fields with the "_attachment" prefix carry the raw
// input between the task and the extraction commands and are stripped before a
// record is handed to the document loader.
const (
	AttachmentBody     = "_attachment_body"
	AttachmentMIMEType = "_attachment_mimetype"
	AttachmentName     = "_attachment_name"

	// FieldFileURI carries the input's source location for downstream use.
	FieldFileURI = "fileURI"
)

// InternalPrefix marks fields that never leave the pipeline.
const InternalPrefix = "_"

// Record is a mapping from field name to one-or-many values.
type Record struct {
	fields map[string][]any
}

// New returns an empty Record.
func New() *Record {
	return &Record{fields: make(map[string][]any)}
}

// FromMap builds a Record from a plain map. Slice values become the field's
// value list; scalar values become single-element lists.
func FromMap(m map[string]any) *Record {
	rec := New()
	for name, value := range m {
		if values, ok := value.([]any); ok {
			rec.Put(name, values...)
			continue
		}
		rec.Put(name, value)
	}
	return rec
}

// Get returns the field's value list, or nil if the field is missing.
func (r *Record) Get(name string) []any {
	return r.fields[name]
}

// First returns the field's first value, or nil if the field is missing or
// empty.
func (r *Record) First(name string) any {
	return ectolinq.First(r.fields[name])
}

// FirstString returns the field's first value as a string, or "" if the field
// is missing, empty, or not a string.
func (r *Record) FirstString(name string) string {
	s, _ := r.First(name).(string)
	return s
}

// Has reports whether the field is present, even with an empty value list.
func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Contains reports whether the field's value list contains the given value.
func (r *Record) Contains(name string, value any) bool {
	return ectolinq.Contains(r.fields[name], value)
}

// Put replaces the field's value list. Put with no values leaves the field
// present but empty.
func (r *Record) Put(name string, values ...any) {
	replacement := make([]any, len(values))
	copy(replacement, values)
	r.fields[name] = replacement
}

// Append adds values to the end of the field's value list, creating the field
// if it is missing.
func (r *Record) Append(name string, values ...any) {
	r.fields[name] = append(r.fields[name], values...)
}

// Remove deletes the field entirely.
func (r *Record) Remove(name string) {
	delete(r.fields, name)
}

// Names returns the record's field names sorted lexicographically.
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Clone returns a copy of the record. Value lists are copied; the values
// themselves are shared.
func (r *Record) Clone() *Record {
	clone := &Record{fields: make(map[string][]any, len(r.fields))}
	for name, values := range r.fields {
		copied := make([]any, len(values))
		copy(copied, values)
		clone.fields[name] = copied
	}
	return clone
}

// Snapshot returns the fields as a plain map, one value list per field. The
// lists are copies; mutating the snapshot does not touch the record.
func (r *Record) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(r.fields))
	for name, values := range r.fields {
		copied := make([]any, len(values))
		copy(copied, values)
		snapshot[name] = copied
	}
	return snapshot
}

// External returns the fields as a plain map with internal ("_"-prefixed)
// fields stripped. This is the view the document loader emits.
func (r *Record) External() map[string]any {
	external := make(map[string]any, len(r.fields))
	for name, values := range r.fields {
		if strings.HasPrefix(name, InternalPrefix) {
			continue
		}
		copied := make([]any, len(values))
		copy(copied, values)
		external[name] = copied
	}
	return external
}

// StripInternal removes every internal ("_"-prefixed) field in place.
func (r *Record) StripInternal() {
	for name := range r.fields {
		if strings.HasPrefix(name, InternalPrefix) {
			delete(r.fields, name)
		}
	}
}

func (r *Record) String() string {
	parts := make([]string, 0, len(r.fields))
	for _, name := range r.Names() {
		parts = append(parts, fmt.Sprintf("%s=%v", name, r.fields[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
