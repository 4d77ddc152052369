// Package tool implements the tool registry (spec component C2): named tool
// definitions dispatched by a JSON-in/JSON-out handler, with sequential,
// parallel, and concurrency-limited batch execution strategies.
package tool

import "encoding/json"

type (
	// Handler executes a single tool call against already-validated
	// arguments and returns a JSON-compatible result or a *Error.
	Handler func(args json.RawMessage) (json.RawMessage, error)

	// Definition describes one tool: its name, the JSON Schema subset
	// constraining its arguments, and the handler that executes it.
	Definition struct {
		// Name uniquely identifies the tool within a Registry.
		Name string
		// Description is shown to the model to help it decide when to call
		// the tool.
		Description string
		// ParametersSchema is a JSON Schema document (the restricted subset
		// from spec.md §6: object type, named properties of
		// {string,number,integer,boolean,array,object}, description, enum,
		// items, required). May be nil to accept any JSON value.
		ParametersSchema json.RawMessage
		// Handler executes the tool given validated arguments.
		Handler Handler
	}

	// CallRequest is a single tool-call request: a tool name plus its raw
	// JSON arguments, as issued by the model.
	CallRequest struct {
		Name          string
		ArgumentsJSON string
	}

	// CallResult is the outcome of dispatching one CallRequest: either a
	// JSON result or a *Error, never both.
	CallResult struct {
		Result json.RawMessage
		Err    *Error
	}
)

// Ok reports whether the call succeeded.
func (r CallResult) Ok() bool { return r.Err == nil }
