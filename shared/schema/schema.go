package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound  = errors.New("schema file not found")
	ErrMalformed = errors.New("schema file is not a valid schema document")
)

// Property is a single field descriptor from the schema's `properties` mapping.
// Descriptor keys hold their text form: strings unquoted, any other JSON value
// compacted, so `"type": ["string", "null"]` reads as `["string","null"]`.
type Property struct {
	Name        string
	Type        string
	Description string
	Example     json.RawMessage
	Minimum     *string
	Maximum     *string
	Format      *string
	Pattern     *string
}

type rawProperty struct {
	Type        json.RawMessage `json:"type"`
	Description json.RawMessage `json:"description"`
	Example     json.RawMessage `json:"example"`
	Minimum     json.RawMessage `json:"minimum"`
	Maximum     json.RawMessage `json:"maximum"`
	Format      json.RawMessage `json:"format"`
	Pattern     json.RawMessage `json:"pattern"`
}

func (r rawProperty) property(name string) Property {
	p := Property{
		Name:    name,
		Example: r.Example,
		Minimum: optionalText(r.Minimum),
		Maximum: optionalText(r.Maximum),
		Format:  optionalText(r.Format),
		Pattern: optionalText(r.Pattern),
	}
	if t := optionalText(r.Type); t != nil {
		p.Type = *t
	}
	if d := optionalText(r.Description); d != nil {
		p.Description = *d
	}
	return p
}

// optionalText renders a descriptor value as text. Absent and null values
// yield nil.
func optionalText(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return &s
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		s = string(raw)
		return &s
	}
	s = compact.String()
	return &s
}

// HasExample reports whether the descriptor declared an `example` key,
// including an explicit null.
func (p Property) HasExample() bool {
	return len(p.Example) > 0
}

// Schema is a loaded record schema. Properties keep the order they were
// declared in the document.
type Schema struct {
	Properties []Property
	document   string
}

// FieldNames returns the property names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return names
}

// Document returns the original schema document, indented with two spaces.
func (s *Schema) Document() string {
	return s.document
}

// Load reads and parses the schema at path. A bare file name is looked up
// inside dir.
func Load(path, dir string) (*Schema, error) {
	resolved := ResolvePath(path, dir)

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resolved)
		}
		return nil, fmt.Errorf("failed to read schema %s: %w", resolved, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}

	return s, nil
}

// ResolvePath joins path onto dir when path carries no directory component.
func ResolvePath(path, dir string) string {
	if dir == "" || strings.ContainsAny(path, "/"+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(dir, path)
}

// Parse builds a Schema from a JSON document.
func Parse(data []byte) (*Schema, error) {
	var doc struct {
		Properties json.RawMessage `json:"properties"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(doc.Properties) == 0 || string(doc.Properties) == "null" {
		return nil, fmt.Errorf("%w: missing \"properties\" mapping", ErrMalformed)
	}

	names, err := propertyOrder(doc.Properties)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var descriptors map[string]rawProperty
	if err := json.Unmarshal(doc.Properties, &descriptors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	s := &Schema{
		Properties: make([]Property, 0, len(names)),
		document:   indented.String(),
	}

	for _, name := range names {
		s.Properties = append(s.Properties, descriptors[name].property(name))
	}

	return s, nil
}

// propertyOrder walks the token stream of the `properties` object and returns
// its keys in document order. Nested values are skipped.
func propertyOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("\"properties\" must be an object")
	}

	var names []string
	seen := make(map[string]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in \"properties\"", tok)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate property %q", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)

		if err := SkipValue(dec); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
	}

	return names, nil
}

// SkipValue consumes the next complete JSON value from dec, nested objects and
// arrays included.
func SkipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}

		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}

		if depth == 0 {
			return nil
		}
	}
}
