package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemafiles "github.com/jonathan/resume-docx/schemas"
)

const testSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string"}, "age": {"type": "integer"}}
}`

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(testSchema, `{"name": "Jane", "age": 30}`))

	err := ValidateJSONString(testSchema, `{"age": "thirty"}`)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Len(t, validationErr.Errors, 2)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{not json`, `{}`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateDocument_Candidate(t *testing.T) {
	valid := map[string]interface{}{
		"name": "Jane",
		"experience": []interface{}{
			map[string]interface{}{"title": "SRE", "start": 2020, "bullets": []interface{}{"Built X", map[string]interface{}{"text": "Did Y"}}},
		},
		"summary": []interface{}{"Ships fast"},
	}
	assert.NoError(t, ValidateDocument(schemafiles.Candidate, valid))

	invalid := map[string]interface{}{"experience": "not a list", "links": []interface{}{1}}
	err := ValidateDocument(schemafiles.Candidate, invalid)
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	var fields []string
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "experience")
	assert.Contains(t, fields, "links.0")
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("nope.schema.json", map[string]interface{}{})
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidateFile_Template(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("sections:\n  - key: summary\npage:\n  h1_bg: '#1F3864'\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sections:\n  - title: No key\npage:\n  h1_bg: navy\n"), 0o644))

	assert.NoError(t, ValidateFile(schemafiles.Template, good))

	err := ValidateFile(schemafiles.Template, bad)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	assert.Error(t, ValidateFile(schemafiles.Template, filepath.Join(dir, "missing.yaml")))
}
