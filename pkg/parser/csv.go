package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

var utf8BOM = []byte("\ufeff")

func (p *Parser) readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // rows may be shorter than the header
	r.Comma = delimiter(data)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	p.logger.Debug("read csv", "records", len(records), "delimiter", string(r.Comma))
	return records, nil
}

// delimiter picks ';' when the header line uses it and has no commas.
func delimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Contains(line, []byte(";")) && !bytes.Contains(line, []byte(",")) {
		return ';'
	}
	return ','
}
