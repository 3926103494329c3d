// Package refinfo resolves the build-reference identifiers (branch, commit)
// attached to composed output. Resolution is explicit: configured values win,
// an optional local repository lookup fills the rest, and anything still
// unknown stays empty. Nothing here reads the process environment.
package refinfo

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sitecomposer/internal/config"
)

// RefInfo identifies the source revision a composition run was built from.
// Empty fields mean "unknown".
type RefInfo struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
}

// Resolve derives the reference info from configuration, consulting the
// local repository at repo_path only for fields the config leaves unset.
// Lookup failures degrade to unknown; they never fail the build.
func Resolve(cfg config.RefsSection) RefInfo {
	info := RefInfo{Branch: cfg.Branch, Commit: cfg.Commit}
	if info.Branch != "" && info.Commit != "" {
		return info
	}
	if cfg.RepoPath == "" {
		return info
	}

	repo, err := git.PlainOpen(cfg.RepoPath)
	if err != nil {
		slog.Debug("No local repository for ref lookup", "path", cfg.RepoPath, "error", err)
		return info
	}
	head, err := repo.Head()
	if err != nil {
		slog.Debug("Repository HEAD not resolvable", "path", cfg.RepoPath, "error", err)
		return info
	}

	if info.Commit == "" {
		info.Commit = head.Hash().String()
	}
	if info.Branch == "" && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info
}
