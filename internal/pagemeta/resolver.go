// Package pagemeta resolves per-page metadata inherited from mixins. The
// host framework calls the resolver once per rendered page with the page's
// path and locale; when the page lives under a mixin's prefix, title and
// description fall back to that mixin's locale data.
package pagemeta

import (
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	"git.home.luguber.info/inful/sitecomposer/internal/metrics"
)

// Metadata is the resolvable subset of page metadata. Empty fields mean
// "not set".
type Metadata struct {
	TitleTemplate string `json:"title_template,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Resolver answers page-metadata lookups against a composed mixin registry.
// Lookups are safe for concurrent use; the per-(mixin, locale) metadata is
// computed once and memoized.
type Resolver struct {
	mixins   []config.Mixin
	recorder metrics.Recorder

	mu   sync.Mutex
	memo map[string]*memoEntry
}

type memoEntry struct {
	once sync.Once
	meta Metadata
}

// NewResolver builds a resolver over the site's mixins in declaration order.
func NewResolver(mixins []config.Mixin, opts ...Option) *Resolver {
	r := &Resolver{
		mixins:   mixins,
		recorder: metrics.NoopRecorder{},
		memo:     make(map[string]*memoEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Resolver) { r.recorder = rec }
}

// Resolve fills the page's unset metadata fields from the owning mixin, if
// any. Authored page values always win; resolution never fails, a page under
// no mixin just keeps its own metadata.
func (r *Resolver) Resolve(path, locale string, page Metadata) Metadata {
	mixin := r.match(path, locale)
	r.recorder.IncResolverLookup(mixin != nil)
	if mixin == nil {
		return page
	}

	inherited := r.mixinMeta(mixin, locale)
	if page.TitleTemplate == "" {
		page.TitleTemplate = inherited.TitleTemplate
	}
	if page.Description == "" {
		page.Description = inherited.Description
	}
	return page
}

// match strips the locale segment and returns the mixin with the longest
// prefix literally prefixing the remainder, or nil.
func (r *Resolver) match(path, locale string) *config.Mixin {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	rest := strings.TrimPrefix(path, "/"+locale)

	var best *config.Mixin
	for i := range r.mixins {
		m := &r.mixins[i]
		if !strings.HasPrefix(rest, m.Prefix) {
			continue
		}
		if best == nil || len(m.Prefix) > len(best.Prefix) {
			best = m
		}
	}
	return best
}

// mixinMeta returns the mixin's metadata for one locale, memoized. The
// computation is idempotent, so a lost race just recomputes the same value.
func (r *Resolver) mixinMeta(mixin *config.Mixin, locale string) Metadata {
	key := mixin.Prefix + "\x00" + locale

	r.mu.Lock()
	entry, ok := r.memo[key]
	if !ok {
		entry = &memoEntry{}
		r.memo[key] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.meta = deriveMeta(mixin, locale)
	})
	return entry.meta
}

// deriveMeta layers the mixin's locale document over its base record:
// locale titleTemplate, else locale title, else the mixin's declared title;
// locale description, else the declared per-locale description.
func deriveMeta(mixin *config.Mixin, locale string) Metadata {
	meta := Metadata{TitleTemplate: mixin.Title}
	if desc, ok := mixin.Descriptions[locale]; ok {
		meta.Description = desc
	}

	doc, ok := mixin.Locales[locale]
	if !ok {
		return meta
	}
	if tmpl, ok := configtree.StringField(doc, "titleTemplate"); ok {
		meta.TitleTemplate = tmpl
	} else if title, ok := configtree.StringField(doc, "title"); ok {
		meta.TitleTemplate = title
	}
	if desc, ok := configtree.StringField(doc, "description"); ok {
		meta.Description = desc
	}
	return meta
}
