package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kacperborowieckb/gen-records/shared/schema"
)

// BuildFieldListing describes every property on its own line, in schema order.
func BuildFieldListing(s *schema.Schema) string {
	lines := make([]string, 0, len(s.Properties))

	for _, p := range s.Properties {
		typ := p.Type
		if typ == "" {
			typ = "unknown"
		}
		desc := p.Description
		if desc == "" {
			desc = "No description"
		}

		line := fmt.Sprintf("%s (%s): %s", p.Name, typ, desc)

		if p.HasExample() {
			line += " | Example: " + exampleText(p.Example)
		}

		var bounds []string
		if p.Minimum != nil {
			bounds = append(bounds, "min: "+*p.Minimum)
		}
		if p.Maximum != nil {
			bounds = append(bounds, "max: "+*p.Maximum)
		}
		if len(bounds) > 0 {
			line += " | Constraints: " + strings.Join(bounds, ", ")
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// BuildContractFields enumerates the fields every generated record must carry.
func BuildContractFields(s *schema.Schema, shape schema.Shape) string {
	lines := make([]string, 0, len(shape.Fields))

	for i, f := range shape.Fields {
		p := s.Properties[i]

		line := fmt.Sprintf("  * %s: %s", f.Name, f.Kind.TypeName())
		if p.Description != "" {
			line += " - " + p.Description
		}

		var constraints []string
		if p.Minimum != nil {
			constraints = append(constraints, "minimum: "+*p.Minimum)
		}
		if p.Maximum != nil {
			constraints = append(constraints, "maximum: "+*p.Maximum)
		}
		if p.Format != nil {
			constraints = append(constraints, "format: "+*p.Format)
		}
		if p.Pattern != nil {
			constraints = append(constraints, "pattern: "+*p.Pattern)
		}
		if len(constraints) > 0 {
			line += " (" + strings.Join(constraints, ", ") + ")"
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func exampleText(raw json.RawMessage) string {
	var str string
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) && json.Unmarshal(raw, &str) == nil {
		return str
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// BuildSystemInstruction compiles the instruction sent with every request of
// the session.
func BuildSystemInstruction(s *schema.Schema, shape schema.Shape) string {
	return fmt.Sprintf(`You are a test data generator. Generate records based on the provided schema and user requirements.

## SCHEMA
<schema>
%s
</schema>

## SCHEMA DETAILS
%s

## IMPORTANT GUIDELINES
1. Use the example values provided in the schema as a reference for realistic data generation.
2. Respect minimum and maximum constraints for numeric fields.
3. Follow the data types and formats specified in the schema.
4. Generate diverse but realistic data that matches the examples and constraints.
5. For fields with examples, use similar patterns but vary the actual values.

## OUTPUT CONTRACT
You MUST return an object with:
- %s: a list of records, where each record has exactly the following fields:
%s
- %s: the number of records generated

Every field is required in every record, and every value must match its type and constraints.

## QUANTITY
Generate only valid records that strictly follow the schema. If the user doesn't specify the number of records, generate 5 records by default.
`, s.Document(), BuildFieldListing(s), schema.RecordsField, BuildContractFields(s, shape), schema.CountField)
}
