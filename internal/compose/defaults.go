package compose

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
)

//go:embed defaults/*.yaml
var builtinDefaultsFS embed.FS

// Defaults maps locale codes to their default template documents. A locale
// without an entry composes from an empty seed.
type Defaults map[string]configtree.Node

// BuiltinDefaults returns the locale templates shipped with the binary.
func BuiltinDefaults() (Defaults, error) {
	entries, err := builtinDefaultsFS.ReadDir("defaults")
	if err != nil {
		return nil, fmt.Errorf("read builtin defaults: %w", err)
	}

	out := make(Defaults, len(entries))
	for _, entry := range entries {
		data, err := builtinDefaultsFS.ReadFile("defaults/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin default %s: %w", entry.Name(), err)
		}
		doc, err := configtree.FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("builtin default %s: %w", entry.Name(), err)
		}
		out[strings.TrimSuffix(entry.Name(), ".yaml")] = doc
	}
	return out, nil
}

// LoadDefaults returns the builtin templates overlaid with <dir>/<locale>.yaml
// files. Directory entries win over builtins per locale, merged key-by-key so
// a partial override keeps the remaining builtin strings. An empty dir means
// builtins only.
func LoadDefaults(dir string) (Defaults, error) {
	out, err := BuiltinDefaults()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read defaults directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read default template %s: %w", entry.Name(), err)
		}
		doc, err := configtree.FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("default template %s: %w", entry.Name(), err)
		}
		locale := strings.TrimSuffix(entry.Name(), ".yaml")
		out[locale] = configtree.Merge(out[locale], doc)
	}
	return out, nil
}
