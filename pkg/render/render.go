// Package render writes an assembled report in one of the supported formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/yurifrl/salesdata/pkg/csv"
	"github.com/yurifrl/salesdata/pkg/report"
)

var ErrUnknownFormat = errors.New("unknown format")

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r *report.Report) error
}

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "csv", "pp"}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return Text{}, nil
	case "json":
		return JSON{Indent: "  "}, nil
	case "csv":
		return CSV{}, nil
	case "pp":
		return PP{}, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

// ContentType is the MIME type of a format's output.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	}
	return "text/plain; charset=utf-8"
}

type JSON struct {
	Indent string
}

func (j JSON) Render(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	return enc.Encode(r)
}

type CSV struct{}

func (CSV) Render(w io.Writer, r *report.Report) error {
	out, err := csv.Create(r)
	if err != nil {
		return fmt.Errorf("failed to build csv: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// PP dumps the report structure, mostly useful while debugging a source file.
type PP struct {
	Color bool
}

func (p PP) Render(w io.Writer, r *report.Report) error {
	printer := pp.New()
	printer.SetColoringEnabled(p.Color)
	_, err := printer.Fprintln(w, r)
	return err
}
