package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Empty(t, cfg.Metrics)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr)
}

func TestBuildPrecedence(t *testing.T) {
	path := writeConfig(t, "format: json\nlog_level: debug\nmetrics: [total_sales, monthly_growth]\nconcurrency: 2\n")

	t.Run("file", func(t *testing.T) {
		cfg, err := Build(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, log.DebugLevel, cfg.Level())
		assert.Equal(t, []string{"total_sales", "monthly_growth"}, cfg.Metrics)
		assert.Equal(t, 2, cfg.Concurrency)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("SALESDATA_FORMAT", "csv")
		t.Setenv("SALESDATA_METRICS", "best_selling_product,sales_per_region")
		cfg, err := Build(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "csv", cfg.Format)
		assert.Equal(t, []string{"best_selling_product", "sales_per_region"}, cfg.Metrics)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("SALESDATA_FORMAT", "csv")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("format", "text", "")
		flags.String("log-level", "info", "")
		require.NoError(t, flags.Parse([]string{"--format", "pp"}))

		cfg, err := Build(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "pp", cfg.Format)
		assert.Equal(t, log.DebugLevel, cfg.Level(), "unset flag does not override the file")
	})
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	tests := map[string]string{
		"log level":   "log_level: loud\n",
		"format":      "format: pdf\n",
		"metric":      "metrics: [median]\n",
		"concurrency": "concurrency: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Build(writeConfig(t, content), nil)
			assert.Error(t, err)
		})
	}
}
