package csv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/yurifrl/salesdata/pkg/models"
	"github.com/yurifrl/salesdata/pkg/report"
)

var header = []string{"metric", "kind", "key", "value", "count", "reason"}

// Rows flattens a report to one line per scalar, per series point and per
// failure. Undefined values are written as "undefined".
func Rows(r *report.Report) [][]string {
	var rows [][]string
	for _, res := range r.Results {
		switch v := res.(type) {
		case *models.Scalar:
			rows = append(rows, []string{v.Metric, string(v.Kind()), v.Key, v.Value.String(), strconv.Itoa(v.Count), ""})
		case *models.Series:
			for _, p := range v.Points {
				rows = append(rows, []string{v.Metric, string(v.Kind()), p.Key, p.Value.String(), strconv.Itoa(p.Count), ""})
			}
		case *models.Failure:
			rows = append(rows, []string{v.Metric, string(v.Kind()), "", "", "", v.Reason()})
		}
	}
	return rows
}

// Create renders the report as CSV with a header line.
func Create(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(Rows(r)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
