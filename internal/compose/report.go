package compose

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
)

// contentHash fingerprints the composed output: sha256 over each locale's
// deterministic JSON encoding, in declared locale order. Two runs over the
// same inputs produce the same hash, which lets the daemon and the history
// store detect no-op recompositions.
func (r *Result) contentHash() string {
	h := sha256.New()
	for _, locale := range r.Order {
		h.Write([]byte(locale))
		h.Write([]byte{0})
		data, err := configtree.ToJSON(r.Locales[locale])
		if err != nil {
			// ToJSON only fails on shapes FromAny already rejected.
			continue
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Summary renders a human-readable run report for the CLI.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Composed %d locale(s) in %s\n", len(r.Locales), r.Duration.Round(time.Millisecond))
	for _, locale := range r.Order {
		doc := r.Locales[locale]
		fmt.Fprintf(&b, "  %-8s %d top-level key(s)\n", locale, topLevelKeys(doc))
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  [%s] %s: %q does not start with %q\n", w.Locale, w.Field, w.Value, w.OldPrefix)
		}
	}
	fmt.Fprintf(&b, "Content hash: %s\n", r.Hash[:12])
	return b.String()
}

func topLevelKeys(n configtree.Node) int {
	if m, ok := n.(configtree.Mapping); ok {
		return len(m)
	}
	return 0
}
