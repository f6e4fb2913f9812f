package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// dateCellLayout is what date-styled cells are rewritten to, matching the
// day-first dates accepted for text sheets.
const dateCellLayout = "02/01/2006"

// readXLSX reads the first sheet of an Office Open XML workbook.
func (p *Parser) readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no data found in workbook")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := 0
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			if date, ok := dateCell(f, sheet, name, date1904); ok {
				row[c] = date
				dates++
			}
		}
	}

	p.logger.Debug("read xlsx", "sheet", sheet, "records", len(rows), "date_cells", dates)
	return rows, nil
}

// dateCell returns the day of a numeric cell styled with a date format.
// GetRows hands such cells back in the workbook's display format
// (e.g. mm-dd-yy), which is ambiguous, so the serial value is used instead.
func dateCell(f *excelize.File, sheet, cell string, date1904 bool) (string, bool) {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return "", false
	}
	style, err := f.GetStyle(idx)
	if err != nil || !isDateFormat(style) {
		return "", false
	}
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", false
	}
	return t.Format(dateCellLayout), true
}

func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return customDateFormat(*style.CustomNumFmt)
	}
	switch id := style.NumFmt; {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true // east asian date formats
	}
	return false
}

// customDateFormat reports whether a format code shows a day or a year.
// Bracketed sections ([Red], [$-409]) and quoted literals are ignored.
func customDateFormat(code string) bool {
	inBracket, inQuote := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}
