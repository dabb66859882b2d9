package sheet

import (
	"fmt"
	"strings"
)

// Table is an in-memory sheet. Rows hold typed values on write and strings on read.
type Table struct {
	Header []string
	Rows   [][]any
}

// NewTable returns an empty table with the given columns.
func NewTable(header ...string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// Append adds a row; it must have one value per column.
func (t *Table) Append(values ...any) {
	row := make([]any, len(t.Header))
	copy(row, values)
	for i := len(values); i < len(row); i++ {
		row[i] = ""
	}
	t.Rows = append(t.Rows, row)
}

// Column returns the index of a header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// RequireColumn is Column with an error naming the available columns.
func (t *Table) RequireColumn(name string) (int, error) {
	if i := t.Column(name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%q (have %s): %w", name, strings.Join(t.Header, ", "), ErrMissingColumn)
}

// EnsureColumn appends an empty column when missing and returns its index.
func (t *Table) EnsureColumn(name string) int {
	if i := t.Column(name); i >= 0 {
		return i
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Header) - 1
}

// Get returns a cell as trimmed text; nil and missing cells are "".
func (t *Table) Get(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	v := t.Rows[row][col]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Set writes a cell, growing the row if needed.
func (t *Table) Set(row, col int, v any) {
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = v
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
