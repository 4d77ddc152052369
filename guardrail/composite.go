package guardrail

import "context"

// Mode selects how a CompositeGuardrail combines its constituents (spec.md
// §3, §4.3).
type Mode string

const (
	// ModeAll requires every constituent to succeed. On failure, the
	// composite returns an *AggregateError listing every failure in input
	// order (Testable Property 9).
	ModeAll Mode = "all"
	// ModeAny succeeds as soon as the earliest (in input order) constituent
	// succeeds; if every constituent fails, the composite returns an
	// *AggregateError listing every failure.
	ModeAny Mode = "any"
	// ModeFirst runs only the first constituent and returns its result
	// verbatim.
	ModeFirst Mode = "first"
)

// Composite runs a list of Guardrails together under Mode semantics,
// grounded on the teacher's allow/block composition shape
// (features/policy/basic.Engine: filter, then deterministic aggregation),
// generalized here to pure string validation instead of tool policy.
type Composite struct {
	CompositeName string
	Guardrails    []Guardrail
	Mode          Mode
}

// NewComposite builds a Composite guardrail.
func NewComposite(name string, mode Mode, guardrails ...Guardrail) *Composite {
	return &Composite{CompositeName: name, Guardrails: guardrails, Mode: mode}
}

func (c *Composite) Name() string        { return c.CompositeName }
func (c *Composite) Description() string { return "composite(" + string(c.Mode) + ")" }

// Validate runs the constituents per c.Mode.
func (c *Composite) Validate(ctx context.Context, value string) (string, error) {
	switch c.Mode {
	case ModeFirst:
		return c.validateFirst(ctx, value)
	case ModeAny:
		return c.validateAny(ctx, value)
	default: // ModeAll, and the zero value, fail closed to the strictest mode.
		return c.validateAll(ctx, value)
	}
}

func (c *Composite) validateFirst(ctx context.Context, value string) (string, error) {
	if len(c.Guardrails) == 0 {
		return value, nil
	}
	return c.Guardrails[0].Validate(ctx, value)
}

func (c *Composite) validateAll(ctx context.Context, value string) (string, error) {
	var failures []*Error
	out := value
	for _, g := range c.Guardrails {
		v, err := g.Validate(ctx, out)
		if err != nil {
			failures = append(failures, asGuardrailError(g, err))
			continue
		}
		out = v
	}
	if len(failures) > 0 {
		return "", &AggregateError{Errors: failures}
	}
	return out, nil
}

func (c *Composite) validateAny(ctx context.Context, value string) (string, error) {
	var failures []*Error
	for _, g := range c.Guardrails {
		v, err := g.Validate(ctx, value)
		if err == nil {
			return v, nil
		}
		failures = append(failures, asGuardrailError(g, err))
	}
	if len(c.Guardrails) == 0 {
		return value, nil
	}
	return "", &AggregateError{Errors: failures}
}

func asGuardrailError(g Guardrail, err error) *Error {
	if ge, ok := err.(*Error); ok {
		return ge
	}
	return &Error{Name: g.Name(), Message: err.Error()}
}
