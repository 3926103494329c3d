package configtree

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToAny converts a Node back into plain Go values suitable for
// yaml.Marshal/json.Marshal. The absent node becomes nil.
func ToAny(n Node) any {
	switch val := n.(type) {
	case nil:
		return nil
	case Scalar:
		return val.Value
	case Sequence:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Mapping:
		out := make(map[string]any, len(val))
		for key, elem := range val {
			out[key] = ToAny(elem)
		}
		return out
	default:
		// The sum is closed; a foreign implementation is a programming error.
		panic(fmt.Sprintf("configtree: unknown node type %T", n))
	}
}

// ToYAML encodes a Node as a YAML document.
func ToYAML(n Node) ([]byte, error) {
	data, err := yaml.Marshal(ToAny(n))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// ToJSON encodes a Node as indented JSON. Mapping keys come out sorted, so
// the encoding is deterministic and usable for content hashing.
func ToJSON(n Node) ([]byte, error) {
	data, err := json.MarshalIndent(ToAny(n), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
