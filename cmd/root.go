package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/nbastats-cli/internal/config"
	"github.com/KaramelBytes/nbastats-cli/internal/explorer"
	"github.com/KaramelBytes/nbastats-cli/internal/loader"
	"github.com/KaramelBytes/nbastats-cli/internal/logging"
	"github.com/KaramelBytes/nbastats-cli/internal/source"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int
	// Source flags (override config if set)
	flagSource  string
	flagDataDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "nbastats",
	Short: "nbastats: explore NBA per-game player statistics by season",
	Long: `nbastats loads the per-game player statistics table of an NBA season from
basketball-reference.com, filters it by team and position, exports CSV and
computes the intercorrelation matrix of its numeric columns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.nbastats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max attempts on 429/5xx/network errors (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "table source: bref | file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory of saved season pages for --source file (overrides config)")
}

func loadConfig() {
	cfg = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyOverrides(cfg)
}

func applyOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("source") && flagSource != "" {
		c.Source = flagSource
	}
	if f.Changed("data-dir") && flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if debug {
		c.LogLevel = "debug"
	}
}

// currentConfig returns the loaded configuration, loading it on demand when
// initialization failed earlier.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(c)
	cfg = c
	return c, nil
}

func newLogger(c *cfgpkg.Global) *logrus.Logger {
	return logging.New(c.LogLevel, c.LogFormat)
}

func buildSource(c *cfgpkg.Global, log *logrus.Logger) (source.TableSource, error) {
	switch c.Source {
	case "file":
		if c.DataDir == "" {
			return nil, fmt.Errorf("--source file requires --data-dir (or data_dir in config)")
		}
		return source.FileSource{Dir: c.DataDir}, nil
	case "bref", "":
		return source.NewHTTPSource(source.HTTPOptions{
			URLTemplate:        c.SourceURLTemplate,
			Timeout:            time.Duration(c.HTTPTimeoutSec) * time.Second,
			RetryMaxAttempts:   c.RetryMaxAttempts,
			RetryBaseDelay:     time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
			RetryMaxDelay:      time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
			RequestsPerMinute:  c.RequestsPerMinute,
			BreakerMaxFailures: c.BreakerMaxFailures,
			UserAgent:          c.UserAgent,
			Logger:             log,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source %q (use bref or file)", c.Source)
	}
}

// newExplorer assembles source, loader and explorer from the effective config.
func newExplorer() (*explorer.Explorer, *logrus.Logger, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(c)
	src, err := buildSource(c, log)
	if err != nil {
		return nil, nil, err
	}
	l := loader.New(src, loader.Options{MinSeason: c.MinSeason, MaxSeason: c.MaxSeason, Logger: log})
	return explorer.New(l), log, nil
}

func parseSeason(arg string) (int, error) {
	season, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: want a year such as 2021", arg)
	}
	return season, nil
}
