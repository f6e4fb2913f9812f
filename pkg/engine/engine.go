// Package engine computes the sales metrics of a dataset. Every operation is a
// pure function of the read-only dataset and yields exactly one result.
package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/salesdata/pkg/dataset"
	"github.com/yurifrl/salesdata/pkg/models"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Operation is a named metric together with the columns it needs.
type Operation struct {
	Name     string
	Title    string
	Requires []string
	compute  func(metric string, ds *dataset.Dataset) models.Result
}

// Run computes the metric. When a required column is missing from the schema
// it returns a *models.Failure naming the columns and computes nothing.
func (op Operation) Run(ds *dataset.Dataset) models.Result {
	if missing := ds.Missing(op.Requires...); len(missing) > 0 {
		return &models.Failure{
			Metric: op.Name,
			Err:    &models.MissingColumnsError{Columns: missing},
		}
	}
	return op.compute(op.Name, ds)
}

var (
	TotalSales = Operation{
		Name:     "total_sales",
		Title:    "Total sales",
		Requires: []string{models.ColumnAmount},
		compute:  totalSales,
	}
	DailyAverage = Operation{
		Name:     "daily_average",
		Title:    "Average sale per day",
		Requires: []string{models.ColumnDate, models.ColumnAmount},
		compute:  dailyAverage,
	}
	MonthlyAverage = Operation{
		Name:     "monthly_average",
		Title:    "Average sale per month",
		Requires: []string{models.ColumnDate, models.ColumnAmount},
		compute:  monthlyAverage,
	}
	MonthlyTotal = Operation{
		Name:     "monthly_total",
		Title:    "Sales per month",
		Requires: []string{models.ColumnDate, models.ColumnAmount},
		compute:  monthlyTotal,
	}
	ProductAverage = Operation{
		Name:     "product_average",
		Title:    "Average sale per product",
		Requires: []string{models.ColumnProduct, models.ColumnAmount},
		compute:  productAverage,
	}
	BestSellingProduct = Operation{
		Name:     "best_selling_product",
		Title:    "Best-selling product",
		Requires: []string{models.ColumnProduct, models.ColumnAmount},
		compute:  bestSellingProduct,
	}
	SalesPerRegion = Operation{
		Name:     "sales_per_region",
		Title:    "Sales per region",
		Requires: []string{models.ColumnRegion, models.ColumnAmount},
		compute:  salesPerRegion,
	}
	MonthlyGrowth = Operation{
		Name:     "monthly_growth",
		Title:    "Month-over-month growth (%)",
		Requires: []string{models.ColumnDate, models.ColumnAmount},
		compute:  monthlyGrowth,
	}
)

// Operations returns every metric in default report order.
func Operations() []Operation {
	return []Operation{
		TotalSales,
		DailyAverage,
		MonthlyAverage,
		MonthlyTotal,
		ProductAverage,
		BestSellingProduct,
		SalesPerRegion,
		MonthlyGrowth,
	}
}

// Lookup finds an operation by metric name.
func Lookup(name string) (Operation, bool) {
	for _, op := range Operations() {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Select resolves metric names in order. No names selects every operation.
func Select(names []string) ([]Operation, error) {
	if len(names) == 0 {
		return Operations(), nil
	}
	ops := make([]Operation, 0, len(names))
	for _, name := range names {
		op, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMetric, name)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Run evaluates ops in order.
func Run(ds *dataset.Dataset, ops ...Operation) []models.Result {
	results := make([]models.Result, 0, len(ops))
	for _, op := range ops {
		results = append(results, op.Run(ds))
	}
	return results
}

// RunConcurrent evaluates ops in parallel, at most limit at a time (no limit
// when limit <= 0). Results keep the order of ops. The only error is ctx's.
func RunConcurrent(ctx context.Context, ds *dataset.Dataset, limit int, ops ...Operation) ([]models.Result, error) {
	results := make([]models.Result, len(ops))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = op.Run(ds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
