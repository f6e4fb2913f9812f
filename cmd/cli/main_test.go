package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/salesdata/pkg/engine"
)

func TestPrintMetrics(t *testing.T) {
	var buf bytes.Buffer
	printMetrics(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(engine.Operations()))
	assert.True(t, strings.HasPrefix(lines[0], "total_sales "))
	assert.Contains(t, lines[0], "Total sales (requires Sales Amount)")
}

func TestReportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "Date,Product,Region,Sales Amount\n1/1/2024,Widget,North,100\n2/1/2024,Gadget,South,50\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"report", "--format", "csv", "--metrics", "total_sales", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "metric,kind,key,value,count,reason\ntotal_sales,scalar,,150,2,\n", out.String())
}

func TestPlanCommandUsesConfiguredFormat(t *testing.T) {
	dir := t.TempDir()
	data := "Date,Product,Region,Sales Amount\n1/1/2024,Widget,North,100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte(data), 0644))
	planPath := filepath.Join(dir, "plan.yaml")
	planYAML := "reports:\n  - name: q1\n    file: sales.csv\n    metrics: [total_sales]\n  - name: q2\n    file: sales.csv\n    metrics: [total_sales]\n    format: json\n"
	require.NoError(t, os.WriteFile(planPath, []byte(planYAML), 0644))
	t.Setenv("SALESDATA_FORMAT", "csv")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plan", planPath})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "== q1 ==\nmetric,kind,key,value,count,reason\ntotal_sales,scalar,,100,1,\n")
	assert.Contains(t, out.String(), "== q2 ==\n{")
}
