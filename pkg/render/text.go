package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/models"
	"github.com/yurifrl/salesdata/pkg/report"
)

// Text is the terminal summary. Colours are only emitted when w is a terminal.
type Text struct{}

type textStyles struct {
	title   lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	re := lipgloss.NewRenderer(w)
	return textStyles{
		title:   re.NewStyle().Bold(true),
		warning: re.NewStyle().Foreground(lipgloss.Color("11")), // yellow
		failure: re.NewStyle().Foreground(lipgloss.Color("9")),  // red
		muted:   re.NewStyle().Foreground(lipgloss.Color("8")),  // gray
	}
}

func (Text) Render(w io.Writer, r *report.Report) error {
	st := newTextStyles(w)
	var b strings.Builder

	if r.Source != "" {
		fmt.Fprintln(&b, st.title.Render("Sales report: "+r.Source))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintln(&b, st.warning.Render("! "+warn))
	}

	for _, res := range r.Results {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, st.title.Render(title(res.MetricName())))
		switch v := res.(type) {
		case *models.Scalar:
			if v.Key != "" {
				fmt.Fprintf(&b, "  %s  %s\n", v.Key, formatValue(st, v.Value))
			} else {
				fmt.Fprintf(&b, "  %s\n", formatValue(st, v.Value))
			}
		case *models.Series:
			if len(v.Points) == 0 {
				fmt.Fprintln(&b, st.muted.Render("  (no data)"))
				continue
			}
			width := 0
			for _, p := range v.Points {
				width = max(width, len(p.Key))
			}
			for _, p := range v.Points {
				fmt.Fprintf(&b, "  %-*s  %s\n", width, p.Key, formatValue(st, p.Value))
			}
		case *models.Failure:
			fmt.Fprintln(&b, st.failure.Render("  x "+v.Reason()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func title(metric string) string {
	if op, ok := engine.Lookup(metric); ok {
		return op.Title
	}
	return metric
}

func formatValue(st textStyles, v models.Value) string {
	f, ok := v.Float64()
	if !ok {
		return st.muted.Render("undefined")
	}
	return fmt.Sprintf("%.2f", f)
}
