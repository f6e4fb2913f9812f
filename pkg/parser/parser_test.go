package parser

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/salesdata/pkg/models"
)

func newParser() *Parser {
	return New(log.New(io.Discard))
}

func TestProcessBytesCSV(t *testing.T) {
	content := []byte("Date,Product,Region,Sales Amount\n" +
		"01/01/2024,A,N,100\n" +
		"01/01/2024,B,S,abc\n" +
		"\n" +
		"02/02/2024,A,N,50\n")

	table, err := newParser().ProcessBytes(content, "salesdata.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Product", "Region", "Sales Amount"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, models.RawRow{
		models.ColumnDate:    "01/01/2024",
		models.ColumnProduct: "B",
		models.ColumnRegion:  "S",
		models.ColumnAmount:  "abc",
	}, table.Rows[1])
}

func TestProcessBytesSemicolonAndBOM(t *testing.T) {
	content := []byte("\ufeff Date ;Sales Amount\n17/03/2025;2327.00\n")

	table, err := newParser().ProcessBytes(content, "export.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Sales Amount"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2327.00", table.Rows[0][models.ColumnAmount])
}

func TestProcessBytesRaggedRows(t *testing.T) {
	content := []byte("Date,Product,,Product,Sales Amount\n" +
		"01/01/2024,A\n" +
		"02/01/2024,B,x,C,10,extra\n")

	table, err := newParser().ProcessBytes(content, "ragged.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Product", "Sales Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, models.RawRow{"Date": "01/01/2024", "Product": "A"}, table.Rows[0])
	assert.Equal(t, models.RawRow{"Date": "02/01/2024", "Product": "B", "Sales Amount": "10"}, table.Rows[1])
}

func TestProcessBytesHeaderOnly(t *testing.T) {
	table, err := newParser().ProcessBytes([]byte("Date,Sales Amount\n"), "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Sales Amount"}, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestProcessBytesXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Product", "Sales Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"05/01/2024", "Widget", "12.5"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"06/01/2024", "Gadget", "7"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := newParser().ProcessBytes(buf.Bytes(), "sales.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Product", "Sales Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Widget", table.Rows[0][models.ColumnProduct])
	assert.Equal(t, "7", table.Rows[1][models.ColumnAmount])
}

func TestProcessBytesXLSXDateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Product", "Sales Amount"}))

	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetSheetRow(sheet, "B2", &[]any{"Widget", 12.5}))

	custom := "dd/mm/yyyy"
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(sheet, "A3", 45351))
	require.NoError(t, f.SetCellStyle(sheet, "A3", "A3", styleID))
	require.NoError(t, f.SetSheetRow(sheet, "B3", &[]any{"Gadget", 7}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := newParser().ProcessBytes(buf.Bytes(), "sales.xlsx")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "05/01/2024", table.Rows[0][models.ColumnDate])
	assert.Equal(t, "29/02/2024", table.Rows[1][models.ColumnDate])
	assert.Equal(t, "12.5", table.Rows[0][models.ColumnAmount], "plain numbers keep their text")
}

func TestCustomDateFormat(t *testing.T) {
	tests := map[string]bool{
		"dd/mm/yyyy":         true,
		"[$-409]mmm d":       true,
		"yyyy":               true,
		"hh:mm:ss":           false,
		"#,##0.00":           false,
		`0.0 "days"`:         false,
		"[Red]#,##0;[Blue]0": false,
	}
	for code, want := range tests {
		assert.Equal(t, want, customDateFormat(code), code)
	}
}

func TestProcessBytesErrors(t *testing.T) {
	p := newParser()

	_, err := p.ProcessBytes([]byte("Date\n"), "sales.pdf")
	assert.ErrorIs(t, err, ErrUnknownFileType)

	_, err = p.ProcessBytes(nil, "sales.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = p.ProcessBytes([]byte("not a workbook"), "sales.xlsx")
	assert.Error(t, err)
}

func TestDetectType(t *testing.T) {
	tests := map[string]FileType{
		"salesdata.csv":     CSV,
		"Export.TXT":        CSV,
		"report.xls":        XLS,
		"report.XLSX":       XLSX,
		"notes.md":          "",
		"no-extension-file": "",
	}
	for name, want := range tests {
		assert.Equal(t, want, DetectType(name), name)
	}
}
