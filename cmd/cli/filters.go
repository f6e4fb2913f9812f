package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/yurifrl/salesdata/pkg/models"
	"github.com/yurifrl/salesdata/pkg/service"
	"github.com/yurifrl/salesdata/pkg/validator"
)

const filterDateLayout = "2006-01-02"

type filters struct {
	startDate string
	endDate   string
	product   string
	region    string
}

func (f *filters) empty() bool {
	return f.startDate == "" && f.endDate == "" && f.product == "" && f.region == ""
}

// toFilterFunc returns nil when no filter is set. With a date bound, rows
// whose date does not parse are dropped.
func (f *filters) toFilterFunc() (service.RowFilter, error) {
	if f.empty() {
		return nil, nil
	}

	var start, end time.Time
	var err error
	if f.startDate != "" {
		if start, err = time.Parse(filterDateLayout, f.startDate); err != nil {
			return nil, fmt.Errorf("invalid --start %q: %w", f.startDate, err)
		}
	}
	if f.endDate != "" {
		if end, err = time.Parse(filterDateLayout, f.endDate); err != nil {
			return nil, fmt.Errorf("invalid --end %q: %w", f.endDate, err)
		}
	}

	return func(row models.RawRow) bool {
		if !start.IsZero() || !end.IsZero() {
			date, ok := validator.ParseDate(row[models.ColumnDate]).Get()
			if !ok {
				return false
			}
			if !start.IsZero() && date.Before(start) {
				return false
			}
			if !end.IsZero() && date.After(end) {
				return false
			}
		}
		if f.product != "" && !strings.EqualFold(strings.TrimSpace(row[models.ColumnProduct]), f.product) {
			return false
		}
		if f.region != "" && !strings.EqualFold(strings.TrimSpace(row[models.ColumnRegion]), f.region) {
			return false
		}
		return true
	}, nil
}
