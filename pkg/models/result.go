package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the Result variants.
type Kind string

const (
	KindScalar  Kind = "scalar"
	KindSeries  Kind = "series"
	KindFailure Kind = "failure"
)

// Result is the outcome of one aggregation: a *Scalar, a *Series or a *Failure.
type Result interface {
	MetricName() string
	Kind() Kind
	isResult()
}

// Scalar is a single value, optionally labelled by a key (e.g. the
// best-selling product).
type Scalar struct {
	Metric string
	Key    string
	Value  Value
	Count  int
}

// Point is one (key, value) pair of a series.
type Point struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
	Count int    `json:"count"`
}

// Series is an ordered sequence of points.
type Series struct {
	Metric string
	Points []Point
}

// Failure reports an aggregation that could not run.
type Failure struct {
	Metric string
	Err    error
}

// Reason is the human-readable failure text.
func (f *Failure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

func (s *Scalar) MetricName() string  { return s.Metric }
func (s *Series) MetricName() string  { return s.Metric }
func (f *Failure) MetricName() string { return f.Metric }

func (*Scalar) Kind() Kind  { return KindScalar }
func (*Series) Kind() Kind  { return KindSeries }
func (*Failure) Kind() Kind { return KindFailure }

func (*Scalar) isResult()  {}
func (*Series) isResult()  {}
func (*Failure) isResult() {}

func (s *Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   Kind   `json:"kind"`
		Metric string `json:"metric"`
		Key    string `json:"key,omitempty"`
		Value  Value  `json:"value"`
		Count  int    `json:"count"`
	}{KindScalar, s.Metric, s.Key, s.Value, s.Count})
}

func (s *Series) MarshalJSON() ([]byte, error) {
	points := s.Points
	if points == nil {
		points = []Point{}
	}
	return json.Marshal(struct {
		Kind   Kind    `json:"kind"`
		Metric string  `json:"metric"`
		Points []Point `json:"points"`
	}{KindSeries, s.Metric, points})
}

func (f *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   Kind   `json:"kind"`
		Metric string `json:"metric"`
		Reason string `json:"reason"`
	}{KindFailure, f.Metric, f.Reason()})
}

// MissingColumnsError is the error carried by a Failure whose required
// columns were never offered by the source.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
}
