package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/nbastats-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set nbastats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "source: %s\n", cfg.Source)
		if cfg.Source == "file" || cfg.DataDir != "" {
			fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		}
		fmt.Fprintf(out, "source_url_template: %s\n", cfg.SourceURLTemplate)
		fmt.Fprintf(out, "min_season: %d\n", cfg.MinSeason)
		fmt.Fprintf(out, "max_season: %d\n", cfg.MaxSeason)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Fprintf(out, "requests_per_minute: %d\n", cfg.RequestsPerMinute)
		fmt.Fprintf(out, "breaker_max_failures: %d\n", cfg.BreakerMaxFailures)
		fmt.Fprintf(out, "user_agent: %s\n", cfg.UserAgent)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if errors.Is(err, fs.ErrNotExist) {
				// first write to an explicit --config path
				c, err = cfgpkg.Defaults()
				if err == nil {
					applyOverrides(c)
				}
			}
			if err != nil {
				return err
			}
			cfg = c
		}
		ints := map[string]*int{
			"min_season":           &cfg.MinSeason,
			"max_season":           &cfg.MaxSeason,
			"http_timeout_sec":     &cfg.HTTPTimeoutSec,
			"retry_max_attempts":   &cfg.RetryMaxAttempts,
			"retry_base_delay_ms":  &cfg.RetryBaseDelayMs,
			"retry_max_delay_ms":   &cfg.RetryMaxDelayMs,
			"requests_per_minute":  &cfg.RequestsPerMinute,
			"breaker_max_failures": &cfg.BreakerMaxFailures,
		}
		switch key {
		case "source":
			switch strings.ToLower(val) {
			case "bref", "http":
				cfg.Source = "bref"
			case "file", "local":
				cfg.Source = "file"
			default:
				return fmt.Errorf("invalid source: %s (use bref or file)", val)
			}
		case "source_url_template":
			if !strings.Contains(val, "%d") {
				return fmt.Errorf("source_url_template must contain %%d for the season")
			}
			cfg.SourceURLTemplate = val
		case "data_dir":
			cfg.DataDir = val
		case "user_agent":
			cfg.UserAgent = val
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "listen_addr":
			cfg.ListenAddr = val
		default:
			p, ok := ints[key]
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*p = i
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
