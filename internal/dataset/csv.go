package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type csvSource struct{}

func (csvSource) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvSource) Rows(path string, opt LoadOptions) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return readCSVRows(f, delim)
}

// ReadCSV parses CSV text from r into a RecordSet.
func ReadCSV(r io.Reader, opt LoadOptions) (RecordSet, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	rows, err := readCSVRows(r, delim)
	if err != nil {
		return RecordSet{}, err
	}
	return FromRows(rows, opt.Format), nil
}

func readCSVRows(src io.Reader, delim rune) ([]map[string]string, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var data [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(data)+1, err)
		}
		data = append(data, rec)
	}
	return rowsFromTable(header, data), nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
