package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNilSchemaAlwaysPasses(t *testing.T) {
	t.Parallel()
	err := Validate(nil, []byte(`{"anything": true}`))
	require.NoError(t, err)
}

func TestValidateRequiredField(t *testing.T) {
	t.Parallel()
	sch := []byte(`{
		"type": "object",
		"properties": {"query": {"type": "string"}},
		"required": ["query"]
	}`)

	require.NoError(t, Validate(sch, []byte(`{"query": "hi"}`)))

	err := Validate(sch, []byte(`{}`))
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
}

func TestValidateTypeMismatchReportsPath(t *testing.T) {
	t.Parallel()
	sch := []byte(`{
		"type": "object",
		"properties": {
			"count": {"type": "integer"}
		},
		"required": ["count"]
	}`)

	err := Validate(sch, []byte(`{"count": "not a number"}`))
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Message)
	assert.Contains(t, se.Path, "count")
}

func TestValidateMalformedPayload(t *testing.T) {
	t.Parallel()
	sch := []byte(`{"type": "object"}`)
	err := Validate(sch, []byte(`not json`))
	require.Error(t, err)
}
