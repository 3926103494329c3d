package config

import (
	"strings"
	"time"

	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
	"git.home.luguber.info/inful/sitecomposer/internal/util/sets"
)

// Validate checks cross-field invariants after normalization and defaults.
// All violations are configuration errors; nothing here degrades silently.
func (c *Config) Validate() error {
	if len(c.Site.Locales) == 0 {
		return scerrors.ConfigError("at least one locale must be declared under site.locales")
	}

	declared := sets.New(c.Site.Locales...)
	if !declared.Has(c.Site.FallbackLocale) {
		return scerrors.ConfigError("fallback locale is not a declared locale").
			WithContext("locale", c.Site.FallbackLocale)
	}

	seenPrefixes := sets.New[string]()
	for _, m := range c.Mixins {
		if m.Prefix == "" {
			return scerrors.ConfigError("mixin prefix must not be empty").
				WithContext("mixin", m.Name)
		}
		if !strings.HasPrefix(m.Prefix, "/") {
			return scerrors.ConfigError("mixin prefix must start with '/'").
				WithContext("mixin", m.Name).
				WithContext("prefix", m.Prefix)
		}
		if seenPrefixes.Has(m.Prefix) {
			return scerrors.ConfigError("duplicate mixin prefix").
				WithContext("prefix", m.Prefix)
		}
		seenPrefixes.Add(m.Prefix)
		if m.LocalesDir == "" {
			return scerrors.ConfigError("mixin locales_dir must be set").
				WithContext("mixin", m.Name)
		}
	}

	switch c.Output.Format {
	case "yaml", "json":
	default:
		return scerrors.ConfigError("output format must be 'yaml' or 'json'").
			WithContext("format", c.Output.Format)
	}

	switch c.Composer.Warnings {
	case "warn", "silent":
	default:
		return scerrors.ConfigError("composer warnings policy must be 'warn' or 'silent'").
			WithContext("warnings", c.Composer.Warnings)
	}

	if c.Daemon.ScheduleInterval != "" {
		if _, err := time.ParseDuration(c.Daemon.ScheduleInterval); err != nil {
			return scerrors.Wrap(err, scerrors.CategoryConfig, scerrors.SeverityFatal, "invalid daemon schedule_interval").
				WithContext("schedule_interval", c.Daemon.ScheduleInterval)
		}
	}

	if c.Daemon.NATS != nil && c.Daemon.NATS.URL == "" {
		return scerrors.ConfigError("daemon.nats.url must be set when the nats section is present")
	}

	return nil
}
