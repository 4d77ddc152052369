// Package guardrail implements the input/output guardrail pipeline (spec
// component C3): pure string validators, composable with All/Any/First
// semantics, plus built-in length/regex/JSON validators and an
// LLM-as-judge validator.
//
// Input and output guardrails share this package's types. The engine keeps
// them in distinct Config fields (InputGuardrail/OutputGuardrail); both
// fields have the same Guardrail type, so the type system does not tell an
// input guardrail from an output one.
package guardrail

import "context"

// Error reports a guardrail failure. Composite guardrails in mode All or Any
// aggregate multiple Errors; see AggregateError.
type Error struct {
	// Name identifies the guardrail that failed.
	Name string
	// Message is a human-readable description of the failure.
	Message string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// AggregateError collects the failures from every failing constituent of a
// CompositeGuardrail run in mode All or (when every constituent fails) Any.
// Errors preserves input order so guardrail-All runs are deterministic
// (Testable Property 9).
type AggregateError struct {
	Errors []*Error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "guardrail: no failures"
	}
	msg := e.Errors[0].Error()
	for _, extra := range e.Errors[1:] {
		msg += "; " + extra.Error()
	}
	return msg
}

// Guardrail is a pure validator over a string value. Validate returns the
// (possibly unchanged) value on success, or a *Error on failure.
type Guardrail interface {
	// Name identifies the guardrail for error reporting and telemetry.
	Name() string
	// Description is an optional human-readable summary.
	Description() string
	// Validate checks value and returns it unchanged on success.
	Validate(ctx context.Context, value string) (string, error)
}

// Func adapts a plain function into a Guardrail.
type Func struct {
	FuncName string
	FuncDesc string
	Fn       func(ctx context.Context, value string) (string, error)
}

func (f Func) Name() string        { return f.FuncName }
func (f Func) Description() string { return f.FuncDesc }
func (f Func) Validate(ctx context.Context, value string) (string, error) {
	return f.Fn(ctx, value)
}
