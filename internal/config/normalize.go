package config

import (
	"strings"

	"golang.org/x/text/language"

	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
)

// Normalize canonicalizes user-supplied values in place: locale codes go
// through BCP-47 parsing ("zh-cn" becomes "zh-CN"), prefixes lose trailing
// slashes, and the output format is lowercased.
func (c *Config) Normalize() error {
	for i, code := range c.Site.Locales {
		canonical, err := normalizeLocale(code)
		if err != nil {
			return err
		}
		c.Site.Locales[i] = canonical
	}

	if c.Site.FallbackLocale != "" {
		canonical, err := normalizeLocale(c.Site.FallbackLocale)
		if err != nil {
			return err
		}
		c.Site.FallbackLocale = canonical
	}

	for i := range c.Mixins {
		m := &c.Mixins[i]
		m.Prefix = strings.TrimRight(m.Prefix, "/")
		normalized := make(map[string]string, len(m.Descriptions))
		for code, desc := range m.Descriptions {
			canonical, err := normalizeLocale(code)
			if err != nil {
				return err
			}
			normalized[canonical] = desc
		}
		if len(normalized) > 0 {
			m.Descriptions = normalized
		}
	}

	c.Output.Format = strings.ToLower(c.Output.Format)
	c.Composer.Warnings = strings.ToLower(c.Composer.Warnings)
	return nil
}

func normalizeLocale(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", scerrors.Wrap(err, scerrors.CategoryConfig, scerrors.SeverityFatal, "invalid locale code").
			WithContext("locale", code)
	}
	return tag.String(), nil
}

// ApplyDefaults fills unset optional fields after normalization.
func (c *Config) ApplyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Documentation Site"
	}
	if c.Site.FallbackLocale == "" && len(c.Site.Locales) > 0 {
		c.Site.FallbackLocale = c.Site.Locales[0]
	}
	if c.LocalesDir == "" {
		c.LocalesDir = "./locales"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./composed"
	}
	if c.Output.Format == "" {
		c.Output.Format = "yaml"
	}
	if c.Composer.Warnings == "" {
		c.Composer.Warnings = "warn"
	}
	if c.Daemon.Listen == "" {
		c.Daemon.Listen = ":8787"
	}
	for i := range c.Mixins {
		if c.Mixins[i].Name == "" && c.Mixins[i].Prefix != "" {
			c.Mixins[i].Name = strings.TrimPrefix(c.Mixins[i].Prefix, "/")
		}
		if c.Mixins[i].Title == "" {
			c.Mixins[i].Title = c.Mixins[i].Name
		}
	}
	if c.Daemon.NATS != nil && c.Daemon.NATS.Subject == "" {
		c.Daemon.NATS.Subject = "sitecomposer.recomposed"
	}
}
