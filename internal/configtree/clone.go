package configtree

// Clone returns a deep copy of the tree. Scalar values are copied by value;
// the clone shares nothing structural with the original, so callers may hand
// it out without exposing internal state to mutation.
func Clone(n Node) Node {
	switch val := n.(type) {
	case nil:
		return nil
	case Scalar:
		return val
	case Sequence:
		out := make(Sequence, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Mapping:
		out := make(Mapping, len(val))
		for key, elem := range val {
			out[key] = Clone(elem)
		}
		return out
	default:
		panic("configtree: unknown node type in clone")
	}
}
