package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// PipelineError carries the position of a failure inside the extraction
// pipeline: which input was being processed, which command raised it, and the
// counter category it should be counted under.
type PipelineError struct {
	Input    string
	Command  string
	Key      string
	Category string
	Message  string
}

func NewPipelineError(msg string) *PipelineError {
	return &PipelineError{
		Message:  msg,
		Input:    "",
		Command:  "",
		Key:      "",
		Category: "",
	}
}

func WrapPipelineError(e error) *PipelineError {
	if e == nil {
		return nil
	}

	var pipelineError *PipelineError
	if errors.As(e, &pipelineError) {
		return pipelineError
	}

	return &PipelineError{
		Message:  e.Error(),
		Input:    "",
		Command:  "",
		Key:      "",
		Category: "",
	}
}

// NewPipelineErrorf creates a new PipelineError with a formatted message
func NewPipelineErrorf(format string, args ...any) *PipelineError {
	// Handle error wrapping directive %w
	// If one of the args is an error and format contains %w,
	// extract the error message and replace %w with %v
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
		}
	}

	return &PipelineError{
		Message:  fmt.Sprintf(format, args...),
		Input:    "",
		Command:  "",
		Key:      "",
		Category: "",
	}
}

func (e *PipelineError) Error() string {
	path := []string{}
	if e.Input != "" {
		path = append(path, fmt.Sprintf("input '%s'", e.Input))
	}
	if e.Command != "" {
		path = append(path, fmt.Sprintf("command '%s'", e.Command))
	}
	if e.Key != "" {
		path = append(path, fmt.Sprintf("key '%s'", e.Key))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *PipelineError) AddInput(input string) *PipelineError {
	e.Input = input
	return e
}

func (e *PipelineError) AddCommand(commandID string) *PipelineError {
	e.Command = commandID
	return e
}

func (e *PipelineError) AddKey(key string) *PipelineError {
	e.Key = key
	return e
}

func (e *PipelineError) AddCategory(category string) *PipelineError {
	e.Category = category
	return e
}

func (e *PipelineError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusInternalServerError, e.Error()).AddMetaValue("input", e.Input).AddMetaValue("command_id", e.Command).AddMetaValue("command_key", e.Key).AddMetaValue("category", e.Category)
}

func IsPipelineError(err error) bool {
	var pipelineError *PipelineError
	return errors.As(err, &pipelineError)
}

// Category returns the counter key a failure is counted under. Explicit
// categories win, then the raising command's key, then "processing".
func Category(err error) string {
	var pipelineError *PipelineError
	if errors.As(err, &pipelineError) {
		if pipelineError.Category != "" {
			return pipelineError.Category
		}
		if pipelineError.Key != "" {
			return pipelineError.Key
		}
	}
	return "processing"
}
