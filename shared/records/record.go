package records

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Record is one generated row: field name to value, in insertion order.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores value under key. A new key is appended to the key order.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Set is the result of one generation round. Count is what the service
// declared and is never reconciled against len(Records).
type Set struct {
	Records []*Record `json:"records"`
	Count   int       `json:"count"`
}

func (s Set) Len() int {
	return len(s.Records)
}

// Header returns the key order of the first record.
func (s Set) Header() []string {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[0].Keys()
}

// Indented renders the records as a two-space indented JSON list.
func (s Set) Indented() (string, error) {
	out, err := json.MarshalIndent(s.Records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
