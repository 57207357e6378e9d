// Package tabular provides a small column-oriented table used to feed suite
// and run construction from CSV files or in-memory data.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table holds named columns of equal length.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from named columns. All columns must have the same
// length.
func New(columns map[string][]string) (*Table, error) {
	t := &Table{index: make(map[string]int)}

	length := -1
	for name, values := range columns {
		if length == -1 {
			length = len(values)
		} else if len(values) != length {
			return nil, fmt.Errorf("column %q has %d values, expected %d", name, len(values), length)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
	}

	if length <= 0 {
		length = 0
	}
	t.rows = make([][]string, length)
	for i := range t.rows {
		row := make([]string, len(t.columns))
		for name, values := range columns {
			row[t.index[name]] = values[i]
		}
		t.rows[i] = row
	}

	return t, nil
}

// FromCSV reads a table from CSV data. The first record is the header.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts.

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &Table{index: make(map[string]int)}
	for i, col := range header {
		name := strings.TrimSpace(col)
		t.index[name] = i
		t.columns = append(t.columns, name)
	}

	for lineNum := 2; ; lineNum++ { // lineNum starts at 2 (1-indexed, after header).
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum, err)
		}
		if len(record) < len(t.columns) {
			return nil, fmt.Errorf("CSV row %d has %d columns, expected at least %d", lineNum, len(record), len(t.columns))
		}
		t.rows = append(t.rows, record)
	}

	return t, nil
}

// FromFile reads a CSV file into a table.
func FromFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := FromCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("missing column: %s", name)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}
