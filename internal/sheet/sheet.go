// Package sheet is the spreadsheet store: whole-sheet tables with a header row.
package sheet

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet and column names shared by the parser, the solver and the classifier.
const (
	TasksSheet  = "tasks"
	ToCSheet    = "table_of_contents"
	AuthorSheet = "author"

	ColID        = "id_tasks_book"
	ColTask      = "task"
	ColAnswer    = "answer"
	ColParagraph = "paragraph"
	ColClasses   = "classes"
	ColTopicID   = "topic_id"
	ColLevel     = "level"
	ColSolution  = "AI_solution"
)

const defaultSheet = "Sheet1"

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrMissingColumn = errors.New("column not found")
)

// Workbook wraps an .xlsx file on disk. Changes are written by Save.
type Workbook struct {
	f     *excelize.File
	path  string
	fresh bool
}

// Open loads path, or starts an empty workbook if the file does not exist yet.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return &Workbook{f: f, path: path}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{f: excelize.NewFile(), path: path, fresh: true}, nil
}

// Path returns the file the workbook saves to.
func (w *Workbook) Path() string { return w.path }

// HasSheet reports whether the workbook contains the named sheet.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string { return w.f.GetSheetList() }

// ReadTable returns the sheet with its first row as the header.
// Short rows are padded so every row has len(Header) cells.
func (w *Workbook) ReadTable(name string) (*Table, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	t := &Table{}
	if len(rows) == 0 {
		return t, nil
	}
	t.Header = append(t.Header, rows[0]...)
	for _, r := range rows[1:] {
		row := make([]any, len(t.Header))
		for i := range row {
			row[i] = ""
		}
		for i, v := range r {
			if i < len(row) {
				row[i] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteTable replaces the named sheet with the table contents.
func (w *Workbook) WriteTable(name string, t *Table) error {
	placeholder := ""
	if w.HasSheet(name) {
		// excelize never deletes the last sheet of a workbook.
		if len(w.f.GetSheetList()) == 1 {
			placeholder = "_" + name
			if _, err := w.f.NewSheet(placeholder); err != nil {
				return fmt.Errorf("replace sheet %s: %w", name, err)
			}
		}
		if err := w.f.DeleteSheet(name); err != nil {
			return fmt.Errorf("replace sheet %s: %w", name, err)
		}
	}
	idx, err := w.f.NewSheet(name)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if placeholder != "" {
		if err := w.f.DeleteSheet(placeholder); err != nil {
			return fmt.Errorf("replace sheet %s: %w", name, err)
		}
		idx, _ = w.f.GetSheetIndex(name)
	}
	if w.fresh && name != defaultSheet && w.HasSheet(defaultSheet) {
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop %s: %w", defaultSheet, err)
		}
		idx, _ = w.f.GetSheetIndex(name)
	}
	w.f.SetActiveSheet(idx)

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := w.setRow(name, 1, header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if err := w.setRow(name, i+2, r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) setRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SetCell writes one value. row and col are zero-based data coordinates
// (row 0 is the first row under the header).
func (w *Workbook) SetCell(sheet string, row, col int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+2)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SetHeader writes a header cell, used when a column is added in place.
func (w *Workbook) SetHeader(sheet string, col int, name string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, 1)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(sheet, cell, name)
}

// Save writes the workbook to its path.
func (w *Workbook) Save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	w.fresh = false
	return nil
}

// Close releases the workbook's temporary files.
func (w *Workbook) Close() error { return w.f.Close() }
