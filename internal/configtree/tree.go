// Package configtree models the JSON-like value trees that theme and locale
// configuration documents are made of.
//
// A tree is a closed sum: a Scalar leaf, an ordered Sequence, or a
// string-keyed Mapping. Absence (YAML null, a missing key, a missing
// document) is represented by a nil Node, which lets merge layering treat
// "not present" and "explicitly null" the same way. Consumers switch
// exhaustively over the three concrete types; there is deliberately no
// reflection-driven fallback.
package configtree

import "reflect"

// Node is one value in a configuration tree. A nil Node means absent.
//
// The concrete types are Scalar, Sequence and Mapping; nothing else
// implements the interface.
type Node interface {
	isNode()
}

// Scalar is a leaf value: string, bool, integer, float, timestamp or raw
// bytes. The value is carried opaquely; tree operations never interpret it
// beyond the string inspection done by field-specific rewrite rules.
type Scalar struct {
	Value any
}

// Sequence is an ordered list of nodes. Order and length are significant.
type Sequence []Node

// Mapping is a string-keyed collection of nodes. Key order is not
// significant.
type Mapping map[string]Node

func (Scalar) isNode()   {}
func (Sequence) isNode() {}
func (Mapping) isNode()  {}

// Equal reports structural equality of two trees, including scalar values.
func Equal(a, b Node) bool { return reflect.DeepEqual(a, b) }

// StringField returns the string value of a top-level mapping key, when the
// node is a mapping, the key is present, and its value is a string scalar.
func StringField(n Node, key string) (string, bool) {
	m, ok := n.(Mapping)
	if !ok {
		return "", false
	}
	s, ok := m[key].(Scalar)
	if !ok {
		return "", false
	}
	v, ok := s.Value.(string)
	return v, ok
}
