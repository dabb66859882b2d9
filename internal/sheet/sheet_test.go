package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	wb, err := Open(path)
	require.NoError(t, err)
	tbl := NewTable(ColID, ColTask, ColLevel)
	tbl.Append("1.", "Первая", 1)
	tbl.Append("2.а", "Вторая")
	require.NoError(t, wb.WriteTable(TasksSheet, tbl))
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	wb, err = Open(path)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{TasksSheet}, wb.Sheets())

	got, err := wb.ReadTable(TasksSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{ColID, ColTask, ColLevel}, got.Header)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "1", got.Get(0, 2))
	assert.Equal(t, "", got.Get(1, 2))
	assert.Len(t, got.Rows[1], 3)
}

func TestWriteTableReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	long := NewTable("a")
	for i := 0; i < 5; i++ {
		long.Append(i)
	}
	require.NoError(t, wb.WriteTable("s", long))
	short := NewTable("b")
	short.Append("x")
	require.NoError(t, wb.WriteTable("s", short))

	got, err := wb.ReadTable("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Header)
	assert.Equal(t, 1, got.Len())
}

func TestReadTableMissingSheet(t *testing.T) {
	wb, err := Open(filepath.Join(t.TempDir(), "none.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadTable(TasksSheet)
	require.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSetCellAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	wb, err := Open(path)
	require.NoError(t, err)
	tbl := NewTable(ColTask)
	tbl.Append("задача")
	tbl.Append("ещё")
	require.NoError(t, wb.WriteTable(TasksSheet, tbl))

	require.NoError(t, wb.SetHeader(TasksSheet, 1, ColSolution))
	require.NoError(t, wb.SetCell(TasksSheet, 1, 1, "ответ"))
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	wb, err = Open(path)
	require.NoError(t, err)
	defer wb.Close()
	got, err := wb.ReadTable(TasksSheet)
	require.NoError(t, err)
	col, err := got.RequireColumn(ColSolution)
	require.NoError(t, err)
	assert.Equal(t, "", got.Get(0, col))
	assert.Equal(t, "ответ", got.Get(1, col))
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, writeFile(path, "not a zip"))
	_, err := Open(path)
	require.Error(t, err)
}
