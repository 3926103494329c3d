package configtree

import "strconv"

// Merge layers b over a and returns the combined tree.
//
// Rules, in order:
//   - absent a yields b; absent b yields a
//   - a scalar b wins outright, even over a composite a
//   - composite b merges key-by-key over the union of both key sets, where a
//     sequence contributes its indices as keys; sequences merge positionally,
//     never by concatenation
//
// Merge never mutates its inputs, but the result may share subtrees with
// them; callers treat merged documents as immutable. Precedence is carried
// by fold order (later layers win), so reordering layers changes the result.
func Merge(a, b Node) Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	switch over := b.(type) {
	case Scalar:
		return over
	case Sequence:
		switch base := a.(type) {
		case Sequence:
			return mergeSequences(base, over)
		case Mapping:
			return mergeKeyed(base, keyedView(over))
		default:
			return over
		}
	case Mapping:
		switch base := a.(type) {
		case Sequence:
			return mergeKeyed(keyedView(base), over)
		case Mapping:
			return mergeKeyed(base, over)
		default:
			return over
		}
	default:
		panic("configtree: unknown node type in merge")
	}
}

// mergeSequences merges positionally: element i of the result is the merge of
// both sides' element i, with the longer side's tail carried through.
func mergeSequences(base, over Sequence) Sequence {
	n := len(base)
	if len(over) > n {
		n = len(over)
	}
	out := make(Sequence, n)
	for i := range out {
		out[i] = Merge(elemAt(base, i), elemAt(over, i))
	}
	return out
}

// mergeKeyed merges over onto base across the union of their keys.
func mergeKeyed(base, over Mapping) Mapping {
	out := make(Mapping, len(base)+len(over))
	for key, val := range base {
		out[key] = val
	}
	for key, val := range over {
		out[key] = Merge(base[key], val)
	}
	return out
}

// keyedView exposes a sequence as a mapping from stringified index to
// element, the shared shape for mixed sequence/mapping merges.
func keyedView(seq Sequence) Mapping {
	m := make(Mapping, len(seq))
	for i, elem := range seq {
		m[strconv.Itoa(i)] = elem
	}
	return m
}

func elemAt(seq Sequence, i int) Node {
	if i < len(seq) {
		return seq[i]
	}
	return nil
}
