package config

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
)

// Site is the in-memory site model: the declared locales with their authored
// documents, plus the mixins in declaration order. This is what the composer
// and the page-metadata resolver consume.
type Site struct {
	Title          string
	FallbackLocale string
	Locales        []string
	Own            map[string]configtree.Node
	Mixins         []Mixin
}

// Mixin is one sub-site with its authored locale documents. A locale with no
// authored document is simply absent from Locales.
type Mixin struct {
	Name         string
	Prefix       string
	Title        string
	Descriptions map[string]string
	Locales      map[string]configtree.Node
}

// LoadSite reads the authored locale documents referenced by the
// configuration. A missing document file is not an error: partially
// translated sites must still compose. A document that decodes to an
// unmergeable shape is a fatal configuration error.
func LoadSite(cfg *Config) (*Site, error) {
	site := &Site{
		Title:          cfg.Site.Title,
		FallbackLocale: cfg.Site.FallbackLocale,
		Locales:        append([]string(nil), cfg.Site.Locales...),
		Own:            make(map[string]configtree.Node, len(cfg.Site.Locales)),
		Mixins:         make([]Mixin, 0, len(cfg.Mixins)),
	}

	for _, locale := range cfg.Site.Locales {
		doc, err := loadLocaleDocument(cfg.LocalesDir, locale)
		if err != nil {
			return nil, err
		}
		site.Own[locale] = doc
	}

	for _, mc := range cfg.Mixins {
		mixin := Mixin{
			Name:         mc.Name,
			Prefix:       mc.Prefix,
			Title:        mc.Title,
			Descriptions: mc.Descriptions,
			Locales:      make(map[string]configtree.Node, len(cfg.Site.Locales)),
		}
		for _, locale := range cfg.Site.Locales {
			doc, err := loadLocaleDocument(mc.LocalesDir, locale)
			if err != nil {
				return nil, scerrors.Wrap(err, scerrors.CategoryConfig, scerrors.SeverityFatal, "load mixin locale document").
					WithContext("mixin", mc.Name).
					WithContext("locale", locale)
			}
			if doc != nil {
				mixin.Locales[locale] = doc
			}
		}
		site.Mixins = append(site.Mixins, mixin)
	}

	return site, nil
}

// loadLocaleDocument reads <dir>/<locale>.yaml into a tree. Absent files
// yield an absent document.
func loadLocaleDocument(dir, locale string) (configtree.Node, error) {
	path := filepath.Join(dir, locale+".yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read locale document %s: %w", path, err)
	}

	doc, err := configtree.FromYAML(data)
	if err != nil {
		return nil, scerrors.Wrap(err, scerrors.CategoryConfig, scerrors.SeverityFatal, "malformed locale document").
			WithContext("file", path)
	}
	return doc, nil
}
