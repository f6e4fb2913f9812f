package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/render"
)

const envPrefix = "SALESDATA"

type Config struct {
	Format      string   `mapstructure:"format"`
	LogLevel    string   `mapstructure:"log_level"`
	Metrics     []string `mapstructure:"metrics"`
	Concurrency int      `mapstructure:"concurrency"`
	Addr        string   `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics", []string{})
	v.SetDefault("concurrency", 0)
	v.SetDefault("addr", "0.0.0.0:3000")
}

// Build loads configuration from, in increasing priority: defaults, the YAML
// config file, SALESDATA_* environment variables (a .env file is loaded
// first when present) and flags that were set on the command line.
// An empty cfgFile looks for an optional config.yaml in the working directory.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for _, key := range v.AllKeys() {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that would only fail later in the run.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if _, err := render.New(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if _, err := engine.Select(c.Metrics); err != nil {
		return fmt.Errorf("invalid metrics: %w", err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// Level is the parsed log level; Validate has already checked it.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
