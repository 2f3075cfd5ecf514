// Package config loads okra settings from defaults, an optional okra.yaml
// or okra.toml, and OKRA_* environment variables, in that order of
// precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/alexanderramin/okra/internal/llm"
)

const envPrefix = "OKRA"

type Config struct {
	DBPath      string            `mapstructure:"db_path"`
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr string   `mapstructure:"addr"`
	CORS []string `mapstructure:"cors"`
}

type LLMConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	Model      string `mapstructure:"model"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`
	LogCalls   bool   `mapstructure:"log_calls"`
}

type SuggestionsConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// Option adjusts how Load searches for settings.
type Option func(*loader)

type loader struct {
	file  string
	paths []string
}

// WithFile reads exactly path instead of searching for okra.{yaml,toml}.
func WithFile(path string) Option {
	return func(l *loader) { l.file = path }
}

// WithSearchPaths replaces the default search directories.
func WithSearchPaths(paths ...string) Option {
	return func(l *loader) { l.paths = paths }
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".okra"
	}
	return filepath.Join(home, ".okra")
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("db_path", filepath.Join(defaultDir(), "okra.db"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.cors", []string{})
	v.SetDefault("llm.enabled", llmDefaults.Enabled)
	v.SetDefault("llm.endpoint", llmDefaults.Endpoint)
	v.SetDefault("llm.model", llmDefaults.Model)
	v.SetDefault("llm.timeout_ms", llmDefaults.TimeoutMs)
	v.SetDefault("llm.max_retries", llmDefaults.MaxRetries)
	v.SetDefault("llm.log_calls", false)
	v.SetDefault("suggestions.cache_size", 128)
}

// Load resolves the configuration.
func Load(opts ...Option) (*Config, error) {
	l := &loader{paths: []string{".", defaultDir()}}
	for _, opt := range opts {
		opt(l)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("okra")
		for _, p := range l.paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.LLM.TimeoutMs < 0 || c.LLM.MaxRetries < 0 {
		return errors.New("config: llm.timeout_ms and llm.max_retries must not be negative")
	}
	return nil
}

// LLMClientConfig converts the llm section to the client's settings,
// keeping the built-in per-task parameters.
func (c *Config) LLMClientConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Enabled = c.LLM.Enabled
	out.LogCalls = c.LLM.LogCalls
	out.Endpoint = strings.TrimRight(c.LLM.Endpoint, "/")
	out.Model = c.LLM.Model
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// Logger builds the process logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
