package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["message"],
	"additionalProperties": false,
	"properties": {
		"message":  {"type": "string", "minLength": 1, "maxLength": 10},
		"language": {"type": "string", "enum": ["no", "en"]},
		"years":    {"type": "integer", "minimum": 1, "maximum": 30}
	}
}`

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(testSchema)

	tests := []struct {
		name     string
		doc      map[string]interface{}
		valid    bool
		wantCode string
	}{
		{name: "valid", doc: map[string]interface{}{"message": "hei", "language": "no"}, valid: true},
		{name: "missing required", doc: map[string]interface{}{"language": "en"}, wantCode: "REQUIRED_FIELD_MISSING"},
		{name: "bad enum", doc: map[string]interface{}{"message": "hi", "language": "sv"}, wantCode: "INVALID_ENUM_VALUE"},
		{name: "too long", doc: map[string]interface{}{"message": "this is far too long"}, wantCode: "LENGTH_VIOLATION"},
		{name: "out of range", doc: map[string]interface{}{"message": "hi", "years": 40}, wantCode: "RANGE_VIOLATION"},
		{name: "extra field", doc: map[string]interface{}{"message": "hi", "foo": 1}, wantCode: "EXTRA_FIELD"},
		{name: "wrong type", doc: map[string]interface{}{"message": 5}, wantCode: "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.Validate(tt.doc)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantCode, result.Errors[0].Code)
				assert.NotEmpty(t, result.Summary())
			}
		})
	}
}

func TestSchema_ValidateJSON(t *testing.T) {
	schema := MustCompile(testSchema)

	assert.True(t, schema.ValidateJSON([]byte(`{"message":"hei"}`)).Valid)

	result := schema.ValidateJSON([]byte(`{"message":`))
	assert.False(t, result.Valid)
	assert.Equal(t, "MALFORMED_JSON", result.Errors[0].Code)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestCompile_GoValue(t *testing.T) {
	schema, err := Compile(map[string]interface{}{
		"type":     "object",
		"required": []string{"id"},
	})
	require.NoError(t, err)
	assert.False(t, schema.Validate(map[string]interface{}{}).Valid)
}
