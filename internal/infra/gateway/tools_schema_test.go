package gateway

import (
	"encoding/json"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSchema(t *testing.T, raw map[string]any) *jsonschema.Resolved {
	t.Helper()

	encoded, err := json.Marshal(raw)
	require.NoError(t, err)

	var schema jsonschema.Schema
	require.NoError(t, json.Unmarshal(encoded, &schema))

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)
	return resolved
}

func TestEmptyObjectSchema(t *testing.T) {
	resolved := resolveSchema(t, emptyObjectSchema())
	assert.NoError(t, resolved.Validate(map[string]any{}))
}

func TestGetPromptSchema(t *testing.T) {
	resolved := resolveSchema(t, getPromptSchema())

	assert.NoError(t, resolved.Validate(map[string]any{"file_name": "fes-prompt.txt"}))
	assert.Error(t, resolved.Validate(map[string]any{}), "file_name is required")
	assert.Error(t, resolved.Validate(map[string]any{"file_name": 42}))
}

func TestSearchSchema(t *testing.T) {
	resolved := resolveSchema(t, searchSchema())

	assert.NoError(t, resolved.Validate(map[string]any{"keyword": "ui"}))
	assert.Error(t, resolved.Validate(map[string]any{}), "keyword is required")
}
