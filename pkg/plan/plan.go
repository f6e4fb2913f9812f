package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/render"
)

type Plan struct {
	Reports []Job `yaml:"reports"`
}

// Job is one report to produce: a sales sheet, the metrics to compute on it
// and the output format. Empty metrics selects every metric.
type Job struct {
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Metrics []string `yaml:"metrics"`
	Format  string   `yaml:"format"`
}

// Load reads and validates a plan. Job files starting with ~/ are expanded
// and relative paths are resolved against the plan's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Reports) == 0 {
		return nil, fmt.Errorf("plan has no reports")
	}

	base := filepath.Dir(path)
	for i := range p.Reports {
		job := &p.Reports[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("report-%d", i+1)
		}
		if job.File == "" {
			return nil, fmt.Errorf("report %s: file is required", job.Name)
		}
		if job.File, err = resolve(base, job.File); err != nil {
			return nil, fmt.Errorf("report %s: %w", job.Name, err)
		}
		if _, err := engine.Select(job.Metrics); err != nil {
			return nil, fmt.Errorf("report %s: %w", job.Name, err)
		}
		if _, err := render.New(job.Format); err != nil {
			return nil, fmt.Errorf("report %s: %w", job.Name, err)
		}
	}
	return &p, nil
}

func resolve(base, file string) (string, error) {
	if strings.HasPrefix(file, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		return filepath.Join(home, file[2:]), nil
	}
	if filepath.IsAbs(file) {
		return file, nil
	}
	return filepath.Join(base, file), nil
}

// OutputFormat is the job's format, or fallback when the job leaves it empty.
func (j Job) OutputFormat(fallback string) string {
	if j.Format == "" {
		return fallback
	}
	return j.Format
}

func (p *Plan) Print(w io.Writer) {
	for i, job := range p.Reports {
		metrics := "all"
		if len(job.Metrics) > 0 {
			metrics = strings.Join(job.Metrics, ",")
		}
		format := job.OutputFormat("default")
		fmt.Fprintf(w, "[%d] name=%s file=%s metrics=%s format=%s\n", i+1, job.Name, job.File, metrics, format)
	}
}
