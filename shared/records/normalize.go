package records

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kacperborowieckb/gen-records/shared/schema"
)

var ErrMalformedReply = errors.New("reply text is not a JSON record list")

// Outcome tags how a reply was turned into records.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeStructured
	OutcomeParsedText
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStructured:
		return "structured"
	case OutcomeParsedText:
		return "parsed_text"
	default:
		return "empty"
	}
}

// Result is the normalized form of a reply.
type Result struct {
	Outcome Outcome
	Set     Set
}

// Normalize extracts records from a reply, trusting its shape less at every
// step: structured payload, then raw JSON text, then nothing.
func Normalize(reply Reply, s *schema.Schema) (Result, error) {
	if reply.Final != nil && len(reply.Final.Records) > 0 {
		return Result{Outcome: OutcomeStructured, Set: project(reply.Final, s.FieldNames())}, nil
	}

	if reply.Final == nil && reply.Text != nil {
		recs, err := ParseText(*reply.Text)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeParsedText, Set: Set{Records: recs, Count: len(recs)}}, nil
	}

	return Result{Outcome: OutcomeEmpty}, nil
}

// project copies only schema fields the source actually carries.
func project(out *FinalOutput, fields []string) Set {
	set := Set{Records: make([]*Record, 0, len(out.Records)), Count: out.Count}

	for _, src := range out.Records {
		rec := NewRecord()
		for _, f := range fields {
			if v, ok := src.Lookup(f); ok {
				rec.Set(f, v)
			}
		}
		set.Records = append(set.Records, rec)
	}

	return set
}

// StripFence removes a surrounding markdown code fence, tagged json or not.
func StripFence(text string) string {
	content := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(content, "```json"):
		content = trimFence(content, len("```json"))
	case strings.HasPrefix(content, "```"):
		content = trimFence(content, len("```"))
	}

	return strings.TrimSpace(content)
}

func trimFence(content string, open int) string {
	end := len(content) - 3
	if end < open {
		return ""
	}
	return content[open:end]
}

// ParseText parses reply text, optionally fenced, as a JSON list of objects.
// Key order inside each object is kept.
func ParseText(text string) ([]*Record, error) {
	content := StripFence(text)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	recs := make([]*Record, 0, len(items))
	for i, item := range items {
		rec, err := parseObject(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedReply, i, err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func parseObject(raw json.RawMessage) (*Record, error) {
	keys, err := objectKeys(raw)
	if err != nil {
		return nil, err
	}

	values, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	rec := NewRecord()
	for _, k := range keys {
		rec.Set(k, values[k])
	}
	return rec, nil
}

// decodeObject decodes a JSON object keeping numbers as json.Number.
func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)

		if err := schema.SkipValue(dec); err != nil {
			return nil, err
		}
	}

	return keys, nil
}
