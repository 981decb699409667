package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Source reads raw rows (header name -> cell text) from a tabular file.
type Source interface {
	CanLoad(path string) bool
	Rows(path string, opt LoadOptions) ([]map[string]string, error)
}

// LoadOptions controls ingestion.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Format controls numeric coercion.
	Format NumberFormat
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// ErrUnsupported indicates no registered source can read the file.
var ErrUnsupported = errors.New("unsupported data format")

// Load reads path with the first matching source and returns a complete
// RecordSet. On any error no partial set is returned.
func Load(path string, opt LoadOptions) (RecordSet, error) {
	for _, s := range registry {
		if !s.CanLoad(path) {
			continue
		}
		rows, err := s.Rows(path, opt)
		if err != nil {
			return RecordSet{}, err
		}
		return FromRows(rows, opt.Format), nil
	}
	return RecordSet{}, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// FromRows coerces raw rows into a RecordSet.
func FromRows(rows []map[string]string, f NumberFormat) RecordSet {
	recs := make([]Record, len(rows))
	for i, row := range rows {
		recs[i] = NewRecord(row, f)
	}
	return RecordSet{recs: recs}
}

// rowsFromTable turns a header plus data rows into keyed rows. Header names
// are trimmed and lower-cased; short rows are padded with "".
func rowsFromTable(header []string, data [][]string) []map[string]string {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}
	out := make([]map[string]string, 0, len(data))
	for _, rec := range data {
		row := make(map[string]string, len(names))
		for j, name := range names {
			if name == "" {
				continue
			}
			if j < len(rec) {
				row[name] = strings.TrimSpace(rec[j])
			} else {
				row[name] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}
