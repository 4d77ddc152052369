// Package schema validates JSON payloads against the restricted JSON-Schema
// subset the specification allows for tool parameters (object type, named
// properties of {string,number,integer,boolean,array,object}, description,
// enum, items, required). It is grounded on the teacher's own schema
// validation helper (registry/service.go's validatePayloadJSONAgainstSchema),
// reimplemented with the same library (santhosh-tekuri/jsonschema).
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Error reports a schema validation failure together with the JSON pointer
// path of the offending value, so callers can surface SchemaMismatch with a
// precise location as the specification requires.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate compiles schemaJSON (a JSON Schema document) and validates
// payloadJSON against it. A nil/empty schemaJSON always validates
// successfully: an absent schema places no constraints on the payload.
func Validate(schemaJSON, payloadJSON []byte) error {
	if len(schemaJSON) == 0 {
		return nil
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return fmt.Errorf("schema: unmarshal schema: %w", err)
	}
	var payloadDoc any
	if err := json.Unmarshal(payloadJSON, &payloadDoc); err != nil {
		return &Error{Message: fmt.Sprintf("payload is not valid JSON: %v", err)}
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool-params.json", schemaDoc); err != nil {
		return fmt.Errorf("schema: add schema resource: %w", err)
	}
	compiled, err := c.Compile("tool-params.json")
	if err != nil {
		return fmt.Errorf("schema: compile schema: %w", err)
	}

	if err := compiled.Validate(payloadDoc); err != nil {
		path, msg := firstViolation(err)
		return &Error{Path: path, Message: msg}
	}
	return nil
}

// firstViolation extracts a single leaf location/message pair from a
// (possibly nested) jsonschema.ValidationError so SchemaMismatch carries a
// short, actionable path rather than the full validation tree.
func firstViolation(err error) (path, message string) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return "", err.Error()
	}
	cur := ve
	for len(cur.Causes) > 0 {
		cur = cur.Causes[0]
	}
	loc := "/"
	if len(cur.InstanceLocation) > 0 {
		loc = "/" + joinPointer(cur.InstanceLocation)
	}
	return loc, cur.Error()
}

func joinPointer(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
