package guardrail

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"goa.design/agentcore/internal/schema"
)

// LengthCheck validates that a string's rune length falls within [min, max].
// max <= 0 means no upper bound.
func LengthCheck(min, max int) Guardrail {
	return Func{
		FuncName: "length_check",
		FuncDesc: fmt.Sprintf("length between %d and %d", min, max),
		Fn: func(_ context.Context, value string) (string, error) {
			n := len([]rune(value))
			if n < min {
				return "", &Error{Name: "length_check", Message: fmt.Sprintf("value has %d characters, minimum is %d", n, min)}
			}
			if max > 0 && n > max {
				return "", &Error{Name: "length_check", Message: fmt.Sprintf("value has %d characters, maximum is %d", n, max)}
			}
			return value, nil
		},
	}
}

// RegexValidator validates that a string matches pattern.
func RegexValidator(pattern string) (Guardrail, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("guardrail: compile regex %q: %w", pattern, err)
	}
	return Func{
		FuncName: "regex_validator",
		FuncDesc: fmt.Sprintf("matches pattern %q", pattern),
		Fn: func(_ context.Context, value string) (string, error) {
			if !re.MatchString(value) {
				return "", &Error{Name: "regex_validator", Message: fmt.Sprintf("value does not match pattern %q", pattern)}
			}
			return value, nil
		},
	}, nil
}

// JsonValidator checks that a string parses as JSON, and optionally that it
// validates against schemaJSON (the same restricted JSON-Schema subset the
// tool registry uses, reusing internal/schema).
func JsonValidator(schemaJSON json.RawMessage) Guardrail {
	return Func{
		FuncName: "json_validator",
		FuncDesc: "valid JSON" + schemaSuffix(schemaJSON),
		Fn: func(_ context.Context, value string) (string, error) {
			var doc any
			if err := json.Unmarshal([]byte(value), &doc); err != nil {
				return "", &Error{Name: "json_validator", Message: fmt.Sprintf("invalid JSON: %v", err)}
			}
			if len(schemaJSON) == 0 {
				return value, nil
			}
			if err := schema.Validate(schemaJSON, []byte(value)); err != nil {
				return "", &Error{Name: "json_validator", Message: err.Error()}
			}
			return value, nil
		},
	}
}

func schemaSuffix(schemaJSON json.RawMessage) string {
	if len(schemaJSON) == 0 {
		return ""
	}
	return " (schema-validated)"
}
