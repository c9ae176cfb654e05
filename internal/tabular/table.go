package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is a single record keyed by column name.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Set assigns a column value.
func (r Row) Set(column, value string) {
	r[column] = value
}

// Blank reports whether every listed column is empty or missing.
func (r Row) Blank(columns []string) bool {
	for _, column := range columns {
		if r.Get(column) != "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of rows sharing a header. For tables
// decoded from CSV, lines records the physical line each row came from.
type Table struct {
	Columns []string
	Rows    []Row

	lines []int
}

// New returns an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Line returns the physical CSV line row i was read from. Rows appended in
// memory fall back to their header-relative position.
func (t *Table) Line(i int) int {
	if i < len(t.lines) {
		return t.lines[i]
	}
	return i + 2
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// EnsureColumns appends any missing columns to the header. Existing rows
// simply read as blank for the new columns.
func (t *Table) EnsureColumns(columns ...string) {
	for _, column := range columns {
		if !t.HasColumn(column) {
			t.Columns = append(t.Columns, column)
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	out.lines = append([]int(nil), t.lines...)
	return out
}

// Read decodes a header-keyed CSV stream. A missing or empty header is an
// error; fully blank lines are skipped.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	table := New(columns...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		// csv silently drops empty lines, so count the physical line
		// from the record itself rather than from a loop counter.
		line, _ := reader.FieldPos(0)

		row := make(Row, len(columns))
		blank := true
		for i, column := range columns {
			if i >= len(record) {
				break
			}
			row[column] = record[i]
			if strings.TrimSpace(record[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Append(row)
		table.lines = append(table.lines, line)
	}
	return table, nil
}

// ReadFile decodes a header-keyed CSV file.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Write encodes the table as CSV, emitting columns in header order.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, column := range t.Columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile encodes the table to path, truncating any existing file.
func (t *Table) WriteFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := t.Write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}
