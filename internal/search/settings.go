// Package search derives search-index connection settings for the host
// framework. The settings are data only; sitecomposer never talks to a
// search service itself.
package search

import (
	"strings"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
	"git.home.luguber.info/inful/sitecomposer/internal/refinfo"
)

// Settings is the connection block handed to the host framework's search
// integration.
type Settings struct {
	Host      string `json:"host"`
	APIKey    string `json:"api_key,omitempty"`
	IndexName string `json:"index_name"`
}

// Derive builds the settings from explicit configuration. The feature is
// disabled (ok false) unless both host and index name are configured. The
// index name may reference "{branch}", filled from the resolved ref info;
// an unknown branch falls back to "main" so the index name stays valid.
func Derive(cfg config.SearchSection, ref refinfo.RefInfo) (Settings, bool) {
	if cfg.Host == "" || cfg.IndexName == "" {
		return Settings{}, false
	}

	branch := ref.Branch
	if branch == "" {
		branch = "main"
	}

	return Settings{
		Host:      cfg.Host,
		APIKey:    cfg.APIKey,
		IndexName: strings.ReplaceAll(cfg.IndexName, "{branch}", branch),
	}, true
}
