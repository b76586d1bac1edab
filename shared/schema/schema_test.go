package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeSchema = `{
  "type": "object",
  "properties": {
    "id": {"type": "integer", "description": "unique identifier", "example": 1},
    "name": {"type": "string", "description": "full name", "example": "Alice"},
    "age": {"type": "integer", "minimum": 18, "maximum": 100},
    "salary": {"type": "number", "minimum": 30000.5},
    "hire_date": {"type": "string", "format": "date", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "meta": {"type": "object", "properties": {"nested": {"type": "string"}}},
    "active": {"type": "boolean"}
  }
}`

func writeSchema(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseKeepsDeclarationOrder(t *testing.T) {
	s, err := Parse([]byte(employeeSchema))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"id", "name", "age", "salary", "hire_date", "tags", "meta", "active"},
		s.FieldNames())
}

func TestParseDescriptorFields(t *testing.T) {
	s, err := Parse([]byte(employeeSchema))
	require.NoError(t, err)

	id := s.Properties[0]
	assert.Equal(t, "integer", id.Type)
	assert.Equal(t, "unique identifier", id.Description)
	assert.True(t, id.HasExample())
	assert.Equal(t, "1", string(id.Example))
	assert.Nil(t, id.Minimum)

	age := s.Properties[2]
	require.NotNil(t, age.Minimum)
	require.NotNil(t, age.Maximum)
	assert.Equal(t, "18", *age.Minimum)
	assert.Equal(t, "100", *age.Maximum)
	assert.False(t, age.HasExample())

	salary := s.Properties[3]
	require.NotNil(t, salary.Minimum)
	assert.Equal(t, "30000.5", *salary.Minimum)
	assert.Nil(t, salary.Maximum)

	hire := s.Properties[4]
	require.NotNil(t, hire.Format)
	require.NotNil(t, hire.Pattern)
	assert.Equal(t, "date", *hire.Format)
	assert.Equal(t, `^\d{4}-\d{2}-\d{2}$`, *hire.Pattern)
}

func TestParseRendersNonStringDescriptorsAsText(t *testing.T) {
	s, err := Parse([]byte(`{"properties": {
		"nickname": {"type": ["string", "null"], "description": null},
		"score": {"type": "number", "minimum": "0", "maximum": {"exclusive": 10}},
		"code": {"type": "string", "format": 7}
	}}`))
	require.NoError(t, err)
	require.Len(t, s.Properties, 3)

	nick := s.Properties[0]
	assert.Equal(t, `["string","null"]`, nick.Type)
	assert.Equal(t, "", nick.Description)

	score := s.Properties[1]
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, "0", *score.Minimum)
	assert.Equal(t, `{"exclusive":10}`, *score.Maximum)

	code := s.Properties[2]
	require.NotNil(t, code.Format)
	assert.Equal(t, "7", *code.Format)
	assert.Nil(t, code.Pattern)
}

func TestParseIndentsDocument(t *testing.T) {
	s, err := Parse([]byte(`{"properties":{"b":{"type":"string"},"a":{"type":"integer"}}}`))
	require.NoError(t, err)

	want := "{\n  \"properties\": {\n    \"b\": {\n      \"type\": \"string\"\n    },\n    \"a\": {\n      \"type\": \"integer\"\n    }\n  }\n}"
	assert.Equal(t, want, s.Document())
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"invalid json":        `{"properties": {`,
		"missing properties":  `{"type": "object"}`,
		"null properties":     `{"properties": null}`,
		"array properties":    `{"properties": [1, 2]}`,
		"duplicate property":  `{"properties": {"id": {"type": "integer"}, "id": {"type": "string"}}}`,
		"non-object property": `{"properties": {"id": 5}}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Parse([]byte(doc))
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestLoadResolvesBareNamesInDir(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "people.json", employeeSchema)

	s, err := Load("people.json", dir)
	require.NoError(t, err)
	assert.Len(t, s.Properties, 8)
}

func TestLoadUsesPathsWithSeparatorsAsIs(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "people.json", employeeSchema)

	s, err := Load(path, filepath.Join(dir, "elsewhere"))
	require.NoError(t, err)
	assert.Len(t, s.Properties, 8)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("nope.json", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "broken.json", `{not json`)

	_, err := Load("broken.json", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("schemas", "a.json"), ResolvePath("a.json", "schemas"))
	assert.Equal(t, "./a.json", ResolvePath("./a.json", "schemas"))
	assert.Equal(t, "a.json", ResolvePath("a.json", ""))
}

func TestLoadBundledEmployeeSchema(t *testing.T) {
	s, err := Load("employee.json", filepath.Join("..", "..", "schemas"))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"id", "name", "email", "age", "department", "salary", "is_active", "hire_date"},
		s.FieldNames())
}

func TestSkipValue(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"a": [1, {"b": [2]}], "c": 3}`))

	_, err := dec.Token()
	require.NoError(t, err)

	key, err := dec.Token()
	require.NoError(t, err)
	assert.Equal(t, "a", key)
	require.NoError(t, SkipValue(dec))

	key, err = dec.Token()
	require.NoError(t, err)
	assert.Equal(t, "c", key)
}

func TestSkipValueTruncatedInput(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`[1, {"b": `))
	assert.Error(t, SkipValue(dec))
}
