package parser

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/salesdata/pkg/models"
)

var (
	ErrUnknownFileType = errors.New("unknown file type")
	ErrEmptyFile       = errors.New("file is empty")
)

type FileType string

const (
	CSV  FileType = "csv"
	XLS  FileType = "xls"
	XLSX FileType = "xlsx"
)

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ProcessBytes reads a sales sheet into a table of raw rows. The format is
// chosen from the file extension.
func (p *Parser) ProcessBytes(data []byte, filename string) (models.Table, error) {
	fileType := DetectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	if len(data) == 0 {
		return models.Table{}, ErrEmptyFile
	}

	var (
		records [][]string
		err     error
	)
	switch fileType {
	case CSV:
		records, err = p.readCSV(data)
	case XLS:
		records, err = p.readXLS(data)
	case XLSX:
		records, err = p.readXLSX(data)
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return models.Table{}, ErrUnknownFileType
	}
	if err != nil {
		return models.Table{}, err
	}

	table := p.toTable(records)
	p.logger.Info("parsed sales sheet", "filename", filename, "columns", len(table.Columns), "rows", len(table.Rows))
	return table, nil
}

func DetectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return CSV
	case ".xls":
		return XLS
	case ".xlsx":
		return XLSX
	}
	return ""
}

// toTable uses the first non-blank record as the header. Cells past the
// header width are dropped; short records produce rows without the trailing
// columns.
func (p *Parser) toTable(records [][]string) models.Table {
	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start == len(records) {
		return models.Table{}
	}

	header := make([]string, len(records[start]))
	seen := make(map[string]bool)
	var columns []string
	for i, h := range records[start] {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" || seen[name] {
			p.logger.Debug("ignoring header cell", "index", i, "header", h)
			continue
		}
		seen[name] = true
		header[i] = name
		columns = append(columns, name)
	}

	rows := make([]models.RawRow, 0, len(records)-start-1)
	for i := start + 1; i < len(records); i++ {
		rec := records[i]
		if blank(rec) {
			continue
		}
		if len(rec) > len(header) {
			p.logger.Debug("record wider than header, extra cells dropped", "line", i+1, "cells", len(rec))
		}
		row := make(models.RawRow, len(columns))
		for j, cell := range rec {
			if j >= len(header) || header[j] == "" {
				continue
			}
			row[header[j]] = cell
		}
		rows = append(rows, row)
	}

	return models.Table{Columns: columns, Rows: rows}
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
