package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/salesdata/pkg/config"
	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/plan"
	"github.com/yurifrl/salesdata/pkg/render"
	"github.com/yurifrl/salesdata/pkg/report"
	"github.com/yurifrl/salesdata/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "salesdata",
	Short: "Sales sheet analytics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
	SilenceUsage: true,
}

// setup loads configuration (config file, env and flag overrides) and builds
// the logger and processor every command shares.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, *service.Processor, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "salesdata",
		Level:           cfg.Level(),
	})

	keep, err := cliFilters.toFilterFunc()
	if err != nil {
		return nil, nil, nil, err
	}
	processor := service.NewProcessor(cfg, logger).WithFilter(keep)
	return cfg, logger, processor, nil
}

var reportCmd = &cobra.Command{
	Use:   "report [flags] <input_path>",
	Short: "Compute sales metrics for a sheet, a directory or a glob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, processor, err := setup(cmd)
		if err != nil {
			return err
		}
		renderer, err := render.New(cfg.Format)
		if err != nil {
			return err
		}

		inputPath := args[0]
		matches, err := filepath.Glob(inputPath)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", inputPath)
		}

		ctx := cmd.Context()
		var reports []*report.Report
		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if fileInfo.IsDir() {
				reps, err := processor.ProcessDirectory(ctx, match, nil)
				if err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
				}
				reports = append(reports, reps...)
			} else {
				rep, err := processor.ProcessFile(ctx, match, nil)
				if err != nil {
					logger.Warn("failed to process file", "error", err, "file", match)
					continue
				}
				reports = append(reports, rep)
			}
		}
		if len(reports) == 0 {
			return fmt.Errorf("no report could be produced from %s", inputPath)
		}

		return writeReports(cmd.OutOrStdout(), renderer, reports)
	},
}

func writeReports(w io.Writer, renderer render.Renderer, reports []*report.Report) error {
	for i, rep := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := renderer.Render(w, rep); err != nil {
			return fmt.Errorf("failed to render %s: %w", rep.Source, err)
		}
	}
	return nil
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Run every report listed in a YAML plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planPath := args[0]

		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}

		cfg, logger, processor, err := setup(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan %s\n", planPath)
		p.Print(out)

		failed := 0
		for _, job := range p.Reports {
			rep, err := processor.ProcessFile(cmd.Context(), job.File, job.Metrics)
			if err != nil {
				logger.Error("report failed", "name", job.Name, "file", job.File, "error", err)
				failed++
				continue
			}
			renderer, err := render.New(job.OutputFormat(cfg.Format))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n== %s ==\n", job.Name)
			if err := renderer.Render(out, rep); err != nil {
				return fmt.Errorf("failed to render %s: %w", job.Name, err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d reports failed", failed, len(p.Reports))
		}
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the available metrics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printMetrics(cmd.OutOrStdout())
	},
}

func printMetrics(w io.Writer) {
	ops := engine.Operations()
	width := 0
	for _, op := range ops {
		width = max(width, len(op.Name))
	}
	for _, op := range ops {
		fmt.Fprintf(w, "%-*s  %s (requires %s)\n", width, op.Name, op.Title, strings.Join(op.Requires, ", "))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Metrics computed in parallel (0 runs them in order)")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.product, "product", "", "Only rows for this product (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.region, "region", "", "Only rows for this region (case insensitive)")

	// Flags specific to the report subcommand
	reportCmd.Flags().StringP("format", "f", "text", "Output format ("+strings.Join(render.Formats, ", ")+")")
	reportCmd.Flags().StringSliceP("metrics", "m", nil, "Metrics to compute (default all)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(metricsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
