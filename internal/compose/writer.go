package compose

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
	"git.home.luguber.info/inful/sitecomposer/internal/logfields"
)

// Writer persists a composition result as one document file per locale.
type Writer struct {
	Directory string
	Format    string // "yaml" or "json"
	Clean     bool
}

// Write materializes the result under the output directory. With Clean set,
// the directory is removed first so stale locales from earlier runs do not
// linger.
func (w Writer) Write(res *Result) error {
	if w.Clean {
		if err := os.RemoveAll(w.Directory); err != nil {
			return scerrors.Wrap(err, scerrors.CategoryFileSystem, scerrors.SeverityFatal, "clean output directory")
		}
	}
	if err := os.MkdirAll(w.Directory, 0o755); err != nil {
		return scerrors.Wrap(err, scerrors.CategoryFileSystem, scerrors.SeverityFatal, "create output directory")
	}

	for _, locale := range res.Order {
		data, err := w.encode(res.Locales[locale])
		if err != nil {
			return scerrors.Wrap(err, scerrors.CategoryCompose, scerrors.SeverityFatal, "encode composed document").
				WithContext("locale", locale)
		}
		path := filepath.Join(w.Directory, locale+"."+w.Format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return scerrors.Wrap(err, scerrors.CategoryFileSystem, scerrors.SeverityFatal, "write composed document").
				WithContext("locale", locale)
		}
		slog.Debug("Wrote composed document", logfields.Locale(locale), logfields.Path(path))
	}
	return nil
}

func (w Writer) encode(doc configtree.Node) ([]byte, error) {
	if w.Format == "json" {
		return configtree.ToJSON(doc)
	}
	return configtree.ToYAML(doc)
}
