package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. NBASTATS_MAX_SEASON.
const EnvPrefix = "NBASTATS"

// Global configuration structure.
type Global struct {
	// Table source: "bref" fetches over HTTP, "file" reads saved pages from DataDir.
	Source            string `mapstructure:"source" yaml:"source"`
	SourceURLTemplate string `mapstructure:"source_url_template" yaml:"source_url_template"`
	DataDir           string `mapstructure:"data_dir" yaml:"data_dir"`

	MinSeason int `mapstructure:"min_season" yaml:"min_season"`
	MaxSeason int `mapstructure:"max_season" yaml:"max_season"`

	// HTTP/Retry configuration
	HTTPTimeoutSec     int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts   int    `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs   int    `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs    int    `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
	RequestsPerMinute  int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	BreakerMaxFailures int    `mapstructure:"breaker_max_failures" yaml:"breaker_max_failures"`
	UserAgent          string `mapstructure:"user_agent" yaml:"user_agent"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// Dir returns ~/.nbastats.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nbastats"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.nbastats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", "bref")
	v.SetDefault("source_url_template", "https://www.basketball-reference.com/leagues/NBA_%d_per_game.html")
	v.SetDefault("data_dir", "")
	v.SetDefault("min_season", 1950)
	v.SetDefault("max_season", 2021)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("retry_max_attempts", 1)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("requests_per_minute", 20)
	v.SetDefault("breaker_max_failures", 5)
	v.SetDefault("user_agent", "nbastats-cli/1.0")
	// Logging
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("listen_addr", ":8080")
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A missing file is tolerated only at the default location; an explicit
// cfgFile must exist, and a file that exists must parse.
func Load(cfgFile string) (*Global, error) {
	v := newViper()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// Defaults returns the configuration from env and built-in defaults only,
// for seeding a config file that does not exist yet.
func Defaults() (*Global, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no component can run with.
func (c *Global) Validate() error {
	switch c.Source {
	case "bref":
	case "file":
		if c.DataDir == "" {
			return fmt.Errorf("source %q requires data_dir", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q (want bref or file)", c.Source)
	}
	if c.MinSeason > c.MaxSeason {
		return fmt.Errorf("min_season %d is after max_season %d", c.MinSeason, c.MaxSeason)
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry_max_attempts must be at least 1, got %d", c.RetryMaxAttempts)
	}
	return nil
}
