// Package compose implements the configuration composition engine: the
// path-rewriting transform that re-anchors relocated documents, and the
// locale composer that folds default templates, mixin documents and the
// site's own documents into one composed document per locale.
package compose

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	"git.home.luguber.info/inful/sitecomposer/internal/logfields"
	"git.home.luguber.info/inful/sitecomposer/internal/metrics"
)

// Composer folds one composed document per declared locale. Layer order is
// fixed: defaults, then mixins in declaration order, then the site's own
// document; later layers win on collision.
type Composer struct {
	site     *config.Site
	defaults Defaults
	recorder metrics.Recorder
	silent   bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithDefaults supplies the locale-default templates (layer zero).
func WithDefaults(d Defaults) Option {
	return func(c *Composer) { c.defaults = d }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Composer) { c.recorder = r }
}

// WithSilentWarnings suppresses splice-warning log lines. Warnings are still
// collected on the result.
func WithSilentWarnings() Option {
	return func(c *Composer) { c.silent = true }
}

// New creates a Composer for a loaded site.
func New(site *config.Site, opts ...Option) *Composer {
	c := &Composer{
		site:     site,
		defaults: Defaults{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one composition run: the composed document per locale plus the
// run's diagnostics. Documents are immutable once the run returns.
type Result struct {
	Locales  map[string]configtree.Node
	Order    []string
	Warnings []Warning
	Duration time.Duration
	Hash     string
}

// Compose runs the full fold for every declared locale. Absent defaults,
// absent mixin documents and absent own documents degrade to empty layers;
// nothing in here fails.
func (c *Composer) Compose() *Result {
	start := time.Now()
	res := &Result{
		Locales: make(map[string]configtree.Node, len(c.site.Locales)),
		Order:   append([]string(nil), c.site.Locales...),
	}

	for _, locale := range c.site.Locales {
		localeStart := time.Now()
		res.Locales[locale] = c.composeLocale(locale, res)
		c.recorder.ObserveLocaleDuration(locale, time.Since(localeStart))
	}

	res.Duration = time.Since(start)
	res.Hash = res.contentHash()
	c.recorder.ObserveComposeDuration(res.Duration)
	c.recorder.SetLocalesComposed(len(res.Locales))
	if len(res.Warnings) > 0 {
		c.recorder.IncComposeOutcome(metrics.OutcomeWarning)
	} else {
		c.recorder.IncComposeOutcome(metrics.OutcomeSuccess)
	}

	slog.Info("Composition completed",
		slog.Int("locales", len(res.Locales)),
		logfields.Warnings(len(res.Warnings)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res
}

// composeLocale folds one locale: defaults < mixins < own.
func (c *Composer) composeLocale(locale string, res *Result) configtree.Node {
	merged := c.defaults[locale]

	for _, mixin := range c.site.Mixins {
		doc, ok := mixin.Locales[locale]
		if !ok {
			continue
		}
		sink := c.warnSink(locale, mixin.Name, res)
		merged = configtree.Merge(merged, Transform(mixin.Prefix, doc, "/"+locale, sink))
	}

	if own := c.site.Own[locale]; own != nil {
		sink := c.warnSink(locale, "", res)
		merged = configtree.Merge(merged, Transform("/"+locale, own, "", sink))
	}

	return merged
}

// warnSink collects splice warnings onto the result, tags them with the
// locale, and surfaces them per policy.
func (c *Composer) warnSink(locale, mixin string, res *Result) WarnFunc {
	return func(w Warning) {
		w.Locale = locale
		res.Warnings = append(res.Warnings, w)
		c.recorder.IncSpliceWarning(w.Field)
		if c.silent {
			return
		}
		attrs := []any{
			logfields.Locale(locale),
			logfields.Field(w.Field),
			slog.String("value", w.Value),
			slog.String("expected_prefix", w.OldPrefix),
		}
		if mixin != "" {
			attrs = append(attrs, logfields.Mixin(mixin))
		}
		slog.Warn("Path does not start with expected prefix, splicing anyway", attrs...)
	}
}
