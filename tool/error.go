package tool

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a tool dispatch failure into the closed set the
// specification defines (spec.md §3, §7).
type Kind string

const (
	// KindUnknownTool means the requested tool name has no registered
	// Definition.
	KindUnknownTool Kind = "unknown_tool"
	// KindArgumentParse means ArgumentsJSON failed to parse as JSON.
	KindArgumentParse Kind = "argument_parse"
	// KindSchemaMismatch means the parsed arguments failed validation
	// against the tool's ParametersSchema.
	KindSchemaMismatch Kind = "schema_mismatch"
	// KindHandlerFailed means the handler itself returned an error.
	KindHandlerFailed Kind = "handler_failed"
)

// Error is a structured tool-dispatch failure. It preserves a Cause chain
// (mirroring toolerrors.ToolError in the teacher) so errors.Is/errors.As
// keep working across the dispatch boundary, and carries Path for
// KindSchemaMismatch failures so callers can report exactly which argument
// was invalid.
type Error struct {
	Kind    Kind
	Message string
	// Path is the JSON pointer to the offending value, populated only for
	// KindSchemaMismatch.
	Path  string
	Cause error
}

// NewError constructs a tool Error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewHandlerError wraps an arbitrary handler failure as a KindHandlerFailed
// Error, preserving the original error as Cause.
func NewHandlerError(cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: KindHandlerFailed, Message: cause.Error(), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Content renders the short machine-readable description the engine embeds
// into the Tool message's content when dispatch fails (spec.md §4.2, §7).
// The exact wire shape is implementation-defined but stable: a compact JSON
// object with "error", "kind", and optional "path" fields.
func (e *Error) Content() string {
	type wire struct {
		Error string `json:"error"`
		Kind  Kind   `json:"kind"`
		Path  string `json:"path,omitempty"`
	}
	b, err := json.Marshal(wire{Error: e.Message, Kind: e.Kind, Path: e.Path})
	if err != nil {
		// Marshaling a struct of plain strings cannot fail; this is
		// defensive only.
		return e.Error()
	}
	return string(b)
}
