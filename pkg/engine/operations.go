package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/salesdata/pkg/dataset"
	"github.com/yurifrl/salesdata/pkg/models"
)

const (
	dayKey   = "2006-01-02"
	monthKey = "2006-01"
)

var hundred = decimal.NewFromInt(100)

func totalSales(metric string, ds *dataset.Dataset) models.Result {
	total := decimal.Zero
	n := 0
	ds.Each(func(rec models.SalesRecord) {
		if v, ok := rec.Amount.Get(); ok {
			total = total.Add(v)
			n++
		}
	})
	return &models.Scalar{Metric: metric, Value: number(total), Count: n}
}

// groupByDate buckets records with a valid date under the formatted layout.
// Records with an invalid date are left out.
func groupByDate(ds *dataset.Dataset, layout string) *grouper {
	gr := newGrouper()
	ds.Each(func(rec models.SalesRecord) {
		if date, ok := rec.Date.Get(); ok {
			gr.add(date.Format(layout), rec.Amount)
		}
	})
	return gr
}

// groupByText buckets records by an exact, case-sensitive categorical value.
func groupByText(ds *dataset.Dataset, field func(models.SalesRecord) models.Field[string]) *grouper {
	gr := newGrouper()
	ds.Each(func(rec models.SalesRecord) {
		if key, ok := field(rec).Get(); ok {
			gr.add(key, rec.Amount)
		}
	})
	return gr
}

func product(rec models.SalesRecord) models.Field[string] { return rec.Product }
func region(rec models.SalesRecord) models.Field[string]  { return rec.Region }

func meanSeries(metric string, groups []*group) *models.Series {
	points := make([]models.Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.Point{Key: g.key, Value: g.mean(), Count: g.count})
	}
	return &models.Series{Metric: metric, Points: points}
}

func sumSeries(metric string, groups []*group) *models.Series {
	points := make([]models.Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.Point{Key: g.key, Value: number(g.sum), Count: g.count})
	}
	return &models.Series{Metric: metric, Points: points}
}

func dailyAverage(metric string, ds *dataset.Dataset) models.Result {
	return meanSeries(metric, groupByDate(ds, dayKey).byKey())
}

func monthlyAverage(metric string, ds *dataset.Dataset) models.Result {
	return meanSeries(metric, groupByDate(ds, monthKey).byKey())
}

func monthlyTotal(metric string, ds *dataset.Dataset) models.Result {
	return sumSeries(metric, groupByDate(ds, monthKey).byKey())
}

// productAverage orders products by how many records they have; ties keep
// first-seen order.
func productAverage(metric string, ds *dataset.Dataset) models.Result {
	groups := groupByText(ds, product).groups()
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].count > groups[j].count })
	return meanSeries(metric, groups)
}

// bestSellingProduct picks the product with the largest sum. On an exact tie
// the product seen first wins.
func bestSellingProduct(metric string, ds *dataset.Dataset) models.Result {
	var best *group
	for _, g := range groupByText(ds, product).groups() {
		if best == nil || g.sum.GreaterThan(best.sum) {
			best = g
		}
	}
	if best == nil {
		return &models.Scalar{Metric: metric, Value: models.Undefined()}
	}
	return &models.Scalar{Metric: metric, Key: best.key, Value: number(best.sum), Count: best.count}
}

func salesPerRegion(metric string, ds *dataset.Dataset) models.Result {
	groups := groupByText(ds, region).groups()
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].sum.GreaterThan(groups[j].sum) })
	return sumSeries(metric, groups)
}

// monthlyGrowth is the percentage change of each month's total over the
// previous month. The first month and any month following a zero total are
// undefined.
func monthlyGrowth(metric string, ds *dataset.Dataset) models.Result {
	months := groupByDate(ds, monthKey).byKey()
	points := make([]models.Point, 0, len(months))
	for i, g := range months {
		growth := models.Undefined()
		if i > 0 {
			if prev := months[i-1].sum; !prev.IsZero() {
				growth = number(g.sum.Sub(prev).Div(prev).Mul(hundred))
			}
		}
		points = append(points, models.Point{Key: g.key, Value: growth, Count: g.count})
	}
	return &models.Series{Metric: metric, Points: points}
}
