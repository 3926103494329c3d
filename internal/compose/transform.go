package compose

import (
	"strings"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
)

// Warning reports a path-splice precondition violation: a value that should
// have started with the old prefix but did not. The splice is performed
// anyway so the build still produces output; the warning is the diagnostic.
type Warning struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	OldPrefix string `json:"old_prefix"`
	Locale    string `json:"locale,omitempty"`
}

// WarnFunc receives splice warnings during a transform. A nil sink discards them.
type WarnFunc func(Warning)

// fieldRule pairs a mapping key with its rewrite. Rules are consulted in
// order before falling through to the generic recursive transform, which
// keeps the special-cased keys visible in one place.
type fieldRule struct {
	key   string
	apply func(*transformer, configtree.Node) configtree.Node
}

var fieldRules []fieldRule

// Populated in init rather than at declaration: the rule functions refer back
// to fieldRules through (*transformer).mapping, which would otherwise form an
// initialization cycle.
func init() {
	fieldRules = []fieldRule{
		{key: "link", apply: (*transformer).rewriteLink},
		{key: "activeMatch", apply: (*transformer).rewriteActiveMatch},
		{key: "sidebar", apply: (*transformer).rewriteSidebar},
	}
}

// Transform re-anchors a document authored relative to oldPrefix so that its
// locale/route-sensitive paths read oldPrefix+prefix instead. The input is
// never mutated; the result is a fresh tree.
//
// Two callers exist: mixin documents are relocated under "/"+locale with the
// mixin prefix spliced in, and a site's own document is promoted from
// locale-relative paths (oldPrefix "") to "/"+locale.
func Transform(prefix string, src configtree.Node, oldPrefix string, warn WarnFunc) configtree.Node {
	t := &transformer{prefix: prefix, oldPrefix: oldPrefix, warn: warn}
	return t.node(src)
}

type transformer struct {
	prefix    string
	oldPrefix string
	warn      WarnFunc
}

func (t *transformer) node(n configtree.Node) configtree.Node {
	switch val := n.(type) {
	case nil:
		return nil
	case configtree.Scalar:
		return val
	case configtree.Sequence:
		return t.sequence(val)
	case configtree.Mapping:
		return t.mapping(val)
	default:
		panic("compose: unknown node type in transform")
	}
}

func (t *transformer) sequence(seq configtree.Sequence) configtree.Sequence {
	out := make(configtree.Sequence, len(seq))
	for i, elem := range seq {
		out[i] = t.node(elem)
	}
	return out
}

func (t *transformer) mapping(m configtree.Mapping) configtree.Mapping {
	out := make(configtree.Mapping, len(m))
keys:
	for key, val := range m {
		for _, rule := range fieldRules {
			if rule.key == key {
				out[key] = rule.apply(t, val)
				continue keys
			}
		}
		out[key] = t.node(val)
	}
	return out
}

// rewriteLink splices the new prefix into absolute paths. Values not starting
// with "/" are external URLs and pass through untouched.
func (t *transformer) rewriteLink(n configtree.Node) configtree.Node {
	s, ok := stringScalar(n)
	if !ok {
		return t.node(n)
	}
	if !strings.HasPrefix(s, "/") {
		return n
	}
	return configtree.Scalar{Value: t.splice("link", s)}
}

// rewriteActiveMatch re-anchors a route-match pattern at the relocated root.
func (t *transformer) rewriteActiveMatch(n configtree.Node) configtree.Node {
	s, ok := stringScalar(n)
	if !ok {
		return t.node(n)
	}
	return configtree.Scalar{Value: "^" + t.splice("activeMatch", s)}
}

// rewriteSidebar handles the two authored sidebar shapes. A flat sequence
// becomes a single-entry mapping keyed by the relocated root; a mapping gets
// every route key spliced and every value transformed.
func (t *transformer) rewriteSidebar(n configtree.Node) configtree.Node {
	switch val := n.(type) {
	case configtree.Sequence:
		return configtree.Mapping{
			t.oldPrefix + t.prefix + "/": t.sequence(val),
		}
	case configtree.Mapping:
		out := make(configtree.Mapping, len(val))
		for key, elem := range val {
			out[t.splice("sidebar", key)] = t.node(elem)
		}
		return out
	default:
		return t.node(n)
	}
}

// splice inserts the new prefix immediately after the old one. A value that
// does not actually start with the old prefix is still spliced the same way,
// preserving the output shape, but the violation goes to the warning sink.
func (t *transformer) splice(field, value string) string {
	if !strings.HasPrefix(value, t.oldPrefix) && t.warn != nil {
		t.warn(Warning{Field: field, Value: value, OldPrefix: t.oldPrefix})
	}
	rest := ""
	if len(value) > len(t.oldPrefix) {
		rest = value[len(t.oldPrefix):]
	}
	return t.oldPrefix + t.prefix + rest
}

func stringScalar(n configtree.Node) (string, bool) {
	s, ok := n.(configtree.Scalar)
	if !ok {
		return "", false
	}
	v, ok := s.Value.(string)
	return v, ok
}
