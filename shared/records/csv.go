package records

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultFilename is offered when the user does not name the output file.
const DefaultFilename = "generated_data.csv"

// ResolveOutputPath joins a bare file name onto dir.
func ResolveOutputPath(path, dir string) string {
	if dir == "" || strings.ContainsAny(path, "/"+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(dir, path)
}

// WriteCSV writes set as comma-delimited text with a header row taken from the
// first record's keys and returns the path written. Missing keys are written
// as empty cells; keys outside the header are dropped.
func WriteCSV(set Set, path, dir string) (string, error) {
	if set.Len() == 0 {
		return "", fmt.Errorf("no records to save")
	}

	resolved := ResolveOutputPath(path, dir)
	if resolved != path {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for writing: %w", resolved, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := set.Header()

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range set.Records {
		if err := w.Write(Row(rec, header)); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", resolved, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", resolved, err)
	}

	return resolved, nil
}

// Row renders rec's values in header order.
func Row(rec *Record, header []string) []string {
	row := make([]string, len(header))
	for i, k := range header {
		if v, ok := rec.Get(k); ok {
			row[i] = FormatValue(v)
		}
	}
	return row
}

// FormatValue renders a record value as cell text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any, map[string]any:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(out)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ReadCSV reads a file produced by WriteCSV. Every value comes back as a string.
func ReadCSV(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv file")
	}

	header := rows[0]
	recs := make([]*Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		rec := NewRecord()
		for j, h := range header {
			if j < len(row) {
				rec.Set(h, row[j])
			}
		}
		recs = append(recs, rec)
	}

	return recs, nil
}
