// Package report packages aggregation results for a report sink.
package report

import (
	"encoding/json"
	"time"

	"github.com/yurifrl/salesdata/pkg/models"
)

// Report is the ordered set of results handed to a sink. Source, warnings and
// generation time are descriptive only.
type Report struct {
	Source      string
	GeneratedAt time.Time
	Warnings    []string
	Results     []models.Result
}

// Option decorates a report without touching its results.
type Option func(*Report)

func WithSource(source string) Option {
	return func(r *Report) { r.Source = source }
}

func WithWarnings(warnings ...string) Option {
	return func(r *Report) { r.Warnings = append(r.Warnings, warnings...) }
}

func WithGeneratedAt(t time.Time) Option {
	return func(r *Report) { r.GeneratedAt = t }
}

// Assemble keeps results in the given order, failures included.
func Assemble(results []models.Result, opts ...Option) *Report {
	r := &Report{Results: append([]models.Result(nil), results...)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the result for a metric.
func (r *Report) Lookup(metric string) (models.Result, bool) {
	for _, res := range r.Results {
		if res.MetricName() == metric {
			return res, true
		}
	}
	return nil, false
}

// Failures returns the results that could not be computed.
func (r *Report) Failures() []*models.Failure {
	var out []*models.Failure
	for _, res := range r.Results {
		if f, ok := res.(*models.Failure); ok {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) MarshalJSON() ([]byte, error) {
	results := r.Results
	if results == nil {
		results = []models.Result{}
	}
	var generated *time.Time
	if !r.GeneratedAt.IsZero() {
		generated = &r.GeneratedAt
	}
	return json.Marshal(struct {
		Source      string          `json:"source,omitempty"`
		GeneratedAt *time.Time      `json:"generated_at,omitempty"`
		Warnings    []string        `json:"warnings,omitempty"`
		Results     []models.Result `json:"results"`
	}{r.Source, generated, r.Warnings, results})
}
