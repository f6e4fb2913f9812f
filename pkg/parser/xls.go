package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// readXLS reads the first worksheet of a legacy Excel workbook.
func (p *Parser) readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no data found in workbook")
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		records = append(records, cells)
	}

	p.logger.Debug("read xls", "sheet", sheet.Name, "records", len(records))
	return records, nil
}
