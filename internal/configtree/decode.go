package configtree

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FromAny converts a decoded YAML/JSON value (as produced by yaml.Unmarshal
// or json.Unmarshal into an untyped target) into a Node.
//
// nil becomes the absent node. A value that is neither a recognized scalar
// nor a []any nor a map[string]any is a malformed document and yields an
// error; documentation builds must not guess at shapes they cannot merge.
func FromAny(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, []byte:
		return Scalar{Value: val}, nil
	case []any:
		seq := make(Sequence, len(val))
		for i, elem := range val {
			node, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			seq[i] = node
		}
		return seq, nil
	case map[string]any:
		m := make(Mapping, len(val))
		for key, elem := range val {
			node, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m[key] = node
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value shape %T (expected scalar, sequence, or mapping)", v)
	}
}

// FromYAML decodes YAML bytes into a Node. An empty document is absent.
func FromYAML(data []byte) (Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromAny(raw)
}

// MustFromAny is FromAny for statically known literals; it panics on
// malformed input. Intended for defaults and tests.
func MustFromAny(v any) Node {
	n, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return n
}
