package plan

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/salesdata/pkg/engine"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writePlan(t, `
reports:
  - name: q1
    file: sales/q1.csv
    metrics: [total_sales, monthly_growth]
    format: json
  - file: /data/q2.xlsx
`)

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.Reports, 2)

	assert.Equal(t, Job{
		Name:    "q1",
		File:    filepath.Join(filepath.Dir(path), "sales", "q1.csv"),
		Metrics: []string{"total_sales", "monthly_growth"},
		Format:  "json",
	}, p.Reports[0])
	assert.Equal(t, "report-2", p.Reports[1].Name)
	assert.Equal(t, "/data/q2.xlsx", p.Reports[1].File)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load(writePlan(t, "reports:\n  - file: ~/sales.csv\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sales.csv"), p.Reports[0].File)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"invalid yaml":   "reports: [",
		"no reports":     "reports: []\n",
		"missing file":   "reports:\n  - name: a\n",
		"unknown format": "reports:\n  - file: a.csv\n    format: pdf\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writePlan(t, content))
			assert.Error(t, err)
		})
	}

	_, err = Load(writePlan(t, "reports:\n  - file: a.csv\n    metrics: [median]\n"))
	assert.True(t, errors.Is(err, engine.ErrUnknownMetric))
}

func TestPrint(t *testing.T) {
	p := &Plan{Reports: []Job{
		{Name: "q1", File: "q1.csv", Metrics: []string{"total_sales"}, Format: "csv"},
		{Name: "q2", File: "q2.csv"},
	}}

	var buf bytes.Buffer
	p.Print(&buf)
	assert.Equal(t,
		"[1] name=q1 file=q1.csv metrics=total_sales format=csv\n"+
			"[2] name=q2 file=q2.csv metrics=all format=default\n",
		buf.String())
}

func TestJobOutputFormat(t *testing.T) {
	assert.Equal(t, "csv", Job{}.OutputFormat("csv"))
	assert.Equal(t, "json", Job{Format: "json"}.OutputFormat("csv"))
}
