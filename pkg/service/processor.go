package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/salesdata/pkg/config"
	"github.com/yurifrl/salesdata/pkg/dataset"
	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/models"
	"github.com/yurifrl/salesdata/pkg/parser"
	"github.com/yurifrl/salesdata/pkg/report"
)

// Processor runs the pipeline sheet -> table -> dataset -> metrics -> report.
type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
	filter RowFilter
}

// RowFilter keeps the rows it returns true for. It sees rows before
// validation, so it must cope with malformed cells.
type RowFilter func(models.RawRow) bool

// WithFilter restricts every following report to the rows f keeps.
func (p *Processor) WithFilter(f RowFilter) *Processor {
	p.filter = f
	return p
}

func NewProcessor(config *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: config,
		logger: logger,
		parser: parser.New(logger),
	}
}

// Report builds a report from an uploaded or read sheet. Empty metrics falls
// back to the configured metrics, and from there to every metric.
func (p *Processor) Report(ctx context.Context, data []byte, filename string, metrics []string) (*report.Report, error) {
	table, err := p.parser.ProcessBytes(data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return p.ReportTable(ctx, table, filename, metrics)
}

// ReportTable is Report for rows that are already in memory.
func (p *Processor) ReportTable(ctx context.Context, table models.Table, source string, metrics []string) (*report.Report, error) {
	if len(metrics) == 0 {
		metrics = p.config.Metrics
	}
	ops, err := engine.Select(metrics)
	if err != nil {
		return nil, err
	}

	if p.filter != nil {
		kept := make([]models.RawRow, 0, len(table.Rows))
		for _, row := range table.Rows {
			if p.filter(row) {
				kept = append(kept, row)
			}
		}
		p.logger.Debug("filtered rows", "source", source, "kept", len(kept), "total", len(table.Rows))
		table.Rows = kept
	}

	ds := dataset.FromTable(table)
	warnings := ds.Summary().Warnings()
	for _, w := range warnings {
		p.logger.Warn("invalid sales data", "source", source, "detail", w)
	}

	var results []models.Result
	if p.config.Concurrency > 0 {
		results, err = engine.RunConcurrent(ctx, ds, p.config.Concurrency, ops...)
		if err != nil {
			return nil, fmt.Errorf("failed to compute metrics: %w", err)
		}
	} else {
		results = engine.Run(ds, ops...)
	}

	rep := report.Assemble(results,
		report.WithSource(source),
		report.WithWarnings(warnings...),
		report.WithGeneratedAt(time.Now().UTC()),
	)
	for _, f := range rep.Failures() {
		p.logger.Warn("metric failed", "source", source, "metric", f.Metric, "reason", f.Reason())
	}
	p.logger.Info("report ready", "source", source, "records", ds.Len(), "metrics", len(results))
	return rep, nil
}

func (p *Processor) ProcessFile(ctx context.Context, path string, metrics []string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Report(ctx, data, filepath.Base(path), metrics)
}

// ProcessDirectory reports on every supported sheet directly inside dir.
// Sheets that fail are logged and skipped.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string, metrics []string) ([]*report.Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var reports []*report.Report
	for _, entry := range entries {
		if entry.IsDir() || parser.DetectType(entry.Name()) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		rep, err := p.ProcessFile(ctx, filepath.Join(dir, entry.Name()), metrics)
		if err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
