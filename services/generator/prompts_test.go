package main

import (
	"strings"
	"testing"

	"github.com/kacperborowieckb/gen-records/shared/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeSchema = `{
  "properties": {
    "id": {"type": "integer", "description": "unique identifier", "example": 1},
    "name": {"type": "string", "description": "full name", "example": "Alice"},
    "age": {"type": "integer", "description": "age in years", "minimum": 18, "maximum": 100},
    "salary": {"type": "number", "maximum": 200000},
    "hire_date": {"type": "string", "format": "date", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "skills": {"type": "array", "example": ["go", "sql"]},
    "notes": {}
  }
}`

func parseSchema(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestBuildFieldListingOneLinePerFieldInOrder(t *testing.T) {
	s := parseSchema(t, employeeSchema)

	lines := strings.Split(BuildFieldListing(s), "\n")
	require.Len(t, lines, len(s.Properties))

	for i, name := range s.FieldNames() {
		assert.True(t, strings.HasPrefix(lines[i], name+" "), "line %d: %q", i, lines[i])
	}
}

func TestBuildFieldListingLineContents(t *testing.T) {
	lines := strings.Split(BuildFieldListing(parseSchema(t, employeeSchema)), "\n")

	assert.Equal(t, "id (integer): unique identifier | Example: 1", lines[0])
	assert.Equal(t, "name (string): full name | Example: Alice", lines[1])
	assert.Equal(t, "age (integer): age in years | Constraints: min: 18, max: 100", lines[2])
	assert.Equal(t, "salary (number): No description | Constraints: max: 200000", lines[3])
	assert.Equal(t, "hire_date (string): No description", lines[4])
	assert.Equal(t, `skills (array): No description | Example: ["go","sql"]`, lines[5])
	assert.Equal(t, "notes (unknown): No description", lines[6])
}

func TestBuildContractFields(t *testing.T) {
	s := parseSchema(t, employeeSchema)
	lines := strings.Split(BuildContractFields(s, schema.DeriveShape(s)), "\n")
	require.Len(t, lines, len(s.Properties))

	assert.Equal(t, "  * id: integer - unique identifier", lines[0])
	assert.Equal(t, "  * age: integer - age in years (minimum: 18, maximum: 100)", lines[2])
	assert.Equal(t, "  * salary: number (maximum: 200000)", lines[3])
	assert.Equal(t, `  * hire_date: string (format: date, pattern: ^\d{4}-\d{2}-\d{2}$)`, lines[4])
	assert.Equal(t, "  * skills: array", lines[5])
	assert.Equal(t, "  * notes: string", lines[6])
}

func TestBuildSystemInstruction(t *testing.T) {
	s := parseSchema(t, employeeSchema)
	shape := schema.DeriveShape(s)
	text := BuildSystemInstruction(s, shape)

	assert.Contains(t, text, s.Document())
	assert.Contains(t, text, BuildFieldListing(s))
	assert.Contains(t, text, BuildContractFields(s, shape))
	assert.Contains(t, text, "Respect minimum and maximum constraints")
	assert.Contains(t, text, "- records: a list of records")
	assert.Contains(t, text, "- count: the number of records generated")
	assert.Contains(t, text, "generate 5 records by default")

	for i := 1; i <= 5; i++ {
		assert.Contains(t, text, "\n"+string(rune('0'+i))+". ")
	}
}

func TestBuildSystemInstructionIsStable(t *testing.T) {
	s := parseSchema(t, employeeSchema)
	shape := schema.DeriveShape(s)

	assert.Equal(t, BuildSystemInstruction(s, shape), BuildSystemInstruction(s, shape))
}
