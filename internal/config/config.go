// Package config loads and validates the site composition configuration.
//
// Loading is a pipeline: optional .env files are applied to the process
// environment, the YAML is read with environment expansion, then the result
// is normalized (locale codes canonicalized, defaults applied) and validated.
// Locale and mixin documents themselves are loaded separately by LoadSite.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk site.yaml schema.
type Config struct {
	Site        SiteSection     `yaml:"site"`
	LocalesDir  string          `yaml:"locales_dir"`
	DefaultsDir string          `yaml:"defaults_dir,omitempty"`
	ContentDir  string          `yaml:"content_dir,omitempty"`
	Mixins      []MixinSection  `yaml:"mixins,omitempty"`
	Output      OutputSection   `yaml:"output"`
	Composer    ComposerSection `yaml:"composer,omitempty"`
	History     HistorySection  `yaml:"history,omitempty"`
	Search      SearchSection   `yaml:"search,omitempty"`
	Refs        RefsSection     `yaml:"refs,omitempty"`
	Daemon      DaemonSection   `yaml:"daemon,omitempty"`
}

// SiteSection names the site and declares its locales.
type SiteSection struct {
	Title          string   `yaml:"title"`
	FallbackLocale string   `yaml:"fallback_locale,omitempty"`
	Locales        []string `yaml:"locales"`
}

// MixinSection declares one sub-site mounted at a URL prefix. Declaration
// order is merge order: later mixins override earlier ones on collision.
type MixinSection struct {
	Name         string            `yaml:"name"`
	Prefix       string            `yaml:"prefix"`
	Title        string            `yaml:"title,omitempty"`
	LocalesDir   string            `yaml:"locales_dir"`
	Descriptions map[string]string `yaml:"descriptions,omitempty"`
}

// OutputSection controls where and how composed documents are written.
type OutputSection struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format,omitempty"` // "yaml" or "json"
	Clean     bool   `yaml:"clean,omitempty"`
}

// ComposerSection holds composition policy knobs.
type ComposerSection struct {
	Warnings string `yaml:"warnings,omitempty"` // "warn" or "silent"
}

// HistorySection configures the run-history store. An empty path disables it.
type HistorySection struct {
	Path string `yaml:"path,omitempty"`
}

// SearchSection carries search-index connection settings handed to the host
// framework. Absent fields mean the feature is disabled; nothing here is
// read from the process environment implicitly.
type SearchSection struct {
	Host      string `yaml:"host,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	IndexName string `yaml:"index_name,omitempty"`
}

// RefsSection pins build-reference identifiers. Configured values win over
// any local repository lookup.
type RefsSection struct {
	Branch   string `yaml:"branch,omitempty"`
	Commit   string `yaml:"commit,omitempty"`
	RepoPath string `yaml:"repo_path,omitempty"`
}

// DaemonSection configures the long-running recomposition mode. The schedule
// interval is a time.ParseDuration string ("5m"); validation rejects values
// that do not parse.
type DaemonSection struct {
	Listen           string       `yaml:"listen,omitempty"`
	Watch            bool         `yaml:"watch,omitempty"`
	ScheduleInterval string       `yaml:"schedule_interval,omitempty"`
	NATS             *NATSSection `yaml:"nats,omitempty"`
}

// ScheduleIntervalDuration returns the parsed schedule interval, or zero when
// unset. Validate has already rejected unparseable values.
func (d DaemonSection) ScheduleIntervalDuration() time.Duration {
	if d.ScheduleInterval == "" {
		return 0
	}
	dur, err := time.ParseDuration(d.ScheduleInterval)
	if err != nil {
		return 0
	}
	return dur
}

// NATSSection configures the recompose event publisher. Nil means disabled.
type NATSSection struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
}

// Load reads, expands, normalizes and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} references before unmarshalling so credentials and
	// host-specific paths stay out of the committed file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFiles applies .env then .env.local to the process environment.
// Existing variables are never overwritten; a missing file is not an error.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			slog.Debug("Loaded environment variables", "file", name)
		}
	}
}
