// Package dataset reads and writes the observation spreadsheets passed
// between pipelines. A Table is an in-memory CSV with a header row; each
// pipeline appends its derived columns and writes a new file, leaving the
// input untouched.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrColumnNotFound is returned when a required column is missing.
var ErrColumnNotFound = errors.New("column not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a CSV table. Every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses CSV from r. The first record is the header; short rows are
// padded with empty cells and rows with more cells than the header are
// rejected.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if len(rec) > len(t.Header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d has %d fields, header has %d",
				line, len(rec), len(t.Header))
		}
		row := make([]string, len(t.Header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile reads the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, err := t.Column(name)
	return err == nil
}

// Get returns the named cell of row i.
func (t *Table) Get(i int, name string) (string, error) {
	col, err := t.Column(name)
	if err != nil {
		return "", err
	}
	return t.Rows[i][col], nil
}

// SetColumn stores values under the named column, replacing an existing
// column of that name or appending a new one. values must have one entry
// per row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows",
			name, len(values), len(t.Rows))
	}
	col, err := t.Column(name)
	if err != nil {
		t.Header = append(t.Header, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}
	for i := range t.Rows {
		t.Rows[i][col] = values[i]
	}
	return nil
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile writes the table to path. The data goes to a temporary file
// in the same directory first, so a failed write never leaves a truncated
// output behind.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
