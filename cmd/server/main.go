package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/salesdata/pkg/config"
	"github.com/yurifrl/salesdata/pkg/server"
)

func main() {
	flags := pflag.NewFlagSet("salesdata-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.String("addr", "0.0.0.0:3000", "Listen address")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Int("concurrency", 0, "Metrics computed in parallel per request (0 runs them in order)")
	_ = flags.Parse(os.Args[1:])

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "salesdata",
	})

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	srv := server.New(cfg, logger)
	logger.Info("starting server", "addr", cfg.Addr)
	if err := srv.Start(cfg.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
