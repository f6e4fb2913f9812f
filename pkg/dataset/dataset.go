// Package dataset holds the validated, read-only collection of sales records
// for one run.
package dataset

import (
	"slices"

	"github.com/yurifrl/salesdata/pkg/models"
	"github.com/yurifrl/salesdata/pkg/validator"
)

// Schema is the set of column names observed in the source, in first-seen order.
type Schema struct {
	columns []string
	set     map[string]struct{}
}

func newSchema() Schema {
	return Schema{set: make(map[string]struct{})}
}

func (s *Schema) add(column string) {
	if _, ok := s.set[column]; ok {
		return
	}
	s.set[column] = struct{}{}
	s.columns = append(s.columns, column)
}

// Has reports whether any row (or the source declaration) carried column.
func (s Schema) Has(column string) bool {
	_, ok := s.set[column]
	return ok
}

// Columns returns the observed column names.
func (s Schema) Columns() []string {
	return slices.Clone(s.columns)
}

// Dataset is immutable after Build and safe for concurrent readers.
type Dataset struct {
	records []models.SalesRecord
	schema  Schema
	summary validator.Summary
}

// Build validates rows into a Dataset. declared lists headers the source
// announced up front; together with every key seen in any row they form the
// schema, so a column missing from some rows is still present for the dataset.
func Build(rows []models.RawRow, declared ...string) *Dataset {
	schema := newSchema()
	for _, column := range declared {
		schema.add(column)
	}
	for _, row := range rows {
		for _, column := range sortedKeys(row) {
			schema.add(column)
		}
	}

	records, summary := validator.Validate(rows, schema)
	return &Dataset{
		records: records,
		schema:  schema,
		summary: summary,
	}
}

// FromTable builds a Dataset from a record source table.
func FromTable(t models.Table) *Dataset {
	return Build(t.Rows, t.Columns...)
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the records.
func (d *Dataset) Records() []models.SalesRecord {
	return slices.Clone(d.records)
}

// Each calls fn for every record in order.
func (d *Dataset) Each(fn func(models.SalesRecord)) {
	for _, rec := range d.records {
		fn(rec)
	}
}

func (d *Dataset) Schema() Schema {
	return d.schema
}

func (d *Dataset) Has(column string) bool {
	return d.schema.Has(column)
}

// Missing returns the columns from cols that the schema lacks, in the given order.
func (d *Dataset) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !d.schema.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Summary returns the validation counts gathered while building.
func (d *Dataset) Summary() validator.Summary {
	return d.summary
}

// Map iteration order is random; sort so the schema order is reproducible
// for rows that introduce several new columns at once.
func sortedKeys(row models.RawRow) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
