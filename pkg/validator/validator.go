// Package validator turns raw rows into typed sales records. It never fails:
// a value that cannot be parsed becomes an explicit invalid marker and the
// problem is counted in a Summary instead of being reported row by row.
package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/salesdata/pkg/models"
)

// Columns reports which columns the source offered.
type Columns interface {
	Has(column string) bool
}

var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
}

var (
	plainAmount      = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)$`)
	scientificAmount = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)[eE]([+-]?\d+)$`)
	groupedAmount    = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// Exponents beyond this cannot produce a finite float64 for any realistic mantissa.
const maxExponent = 400

// ParseDate parses a day/month/year date. A trailing time of day is accepted
// and dropped.
func ParseDate(raw string) models.Field[time.Time] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.InvalidField[time.Time]()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.ValidField(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		}
	}
	return models.InvalidField[time.Time]()
}

// ParseAmount parses a sales amount written with a dot as decimal separator.
// Scientific notation and comma thousands grouping are accepted when they are
// well formed; anything else is invalid.
func ParseAmount(raw string) models.Field[decimal.Decimal] {
	s := strings.TrimSpace(raw)
	switch {
	case plainAmount.MatchString(s):
	case groupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case scientificAmount.MatchString(s):
		exp, err := strconv.Atoi(scientificAmount.FindStringSubmatch(s)[3])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return models.InvalidField[decimal.Decimal]()
		}
	default:
		return models.InvalidField[decimal.Decimal]()
	}

	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return models.InvalidField[decimal.Decimal]()
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return models.InvalidField[decimal.Decimal]()
	}
	return models.ValidField(d)
}

// ParseText keeps a categorical value byte for byte, surrounding spaces and
// the empty string included, so grouping stays an exact match.
func ParseText(raw string) models.Field[string] {
	return models.ValidField(raw)
}

// text is Invalid only when the row has no cell for a declared column.
func text(row models.RawRow, column string) models.Field[string] {
	raw, ok := row[column]
	if !ok {
		return models.InvalidField[string]()
	}
	return ParseText(raw)
}

// Summary counts the per-field parse failures of a batch.
type Summary struct {
	Rows            int
	InvalidDates    int
	InvalidProducts int
	InvalidRegions  int
	InvalidAmounts  int
}

// Warnings returns one aggregated message per field with failures.
func (s Summary) Warnings() []string {
	var out []string
	add := func(n int, column string) {
		if n > 0 {
			out = append(out, fmt.Sprintf("%d of %d rows have an invalid %s", n, s.Rows, column))
		}
	}
	add(s.InvalidDates, models.ColumnDate)
	add(s.InvalidProducts, models.ColumnProduct)
	add(s.InvalidRegions, models.ColumnRegion)
	add(s.InvalidAmounts, models.ColumnAmount)
	return out
}

// Record validates a single row. line is the 1-based position in the batch.
func Record(row models.RawRow, line int, cols Columns) models.SalesRecord {
	rec := models.SalesRecord{
		Line:    line,
		Date:    models.AbsentField[time.Time](),
		Product: models.AbsentField[string](),
		Region:  models.AbsentField[string](),
		Amount:  models.AbsentField[decimal.Decimal](),
	}
	if cols.Has(models.ColumnDate) {
		rec.Date = ParseDate(row[models.ColumnDate])
	}
	if cols.Has(models.ColumnProduct) {
		rec.Product = text(row, models.ColumnProduct)
	}
	if cols.Has(models.ColumnRegion) {
		rec.Region = text(row, models.ColumnRegion)
	}
	if cols.Has(models.ColumnAmount) {
		rec.Amount = ParseAmount(row[models.ColumnAmount])
	}
	return rec
}

// Validate converts every row. It never aborts on bad input.
func Validate(rows []models.RawRow, cols Columns) ([]models.SalesRecord, Summary) {
	records := make([]models.SalesRecord, 0, len(rows))
	summary := Summary{Rows: len(rows)}
	for i, row := range rows {
		rec := Record(row, i+1, cols)
		if rec.Date.State == models.Invalid {
			summary.InvalidDates++
		}
		if rec.Product.State == models.Invalid {
			summary.InvalidProducts++
		}
		if rec.Region.State == models.Invalid {
			summary.InvalidRegions++
		}
		if rec.Amount.State == models.Invalid {
			summary.InvalidAmounts++
		}
		records = append(records, rec)
	}
	return records, summary
}
