package configtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromAny_RejectsUnmergeableShapes(t *testing.T) {
	_, err := FromAny(map[int]any{1: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported value shape")
}

func TestFromAny_NestedErrorNamesPath(t *testing.T) {
	_, err := FromAny(map[string]any{"nav": []any{struct{}{}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), `key "nav"`)
	require.Contains(t, err.Error(), "index 0")
}

func TestFromYAML_RoundTripsThroughToYAML(t *testing.T) {
	src := []byte("title: Guide\nnav:\n  - text: Home\n    link: /\n")

	node, err := FromYAML(src)
	require.NoError(t, err)

	out, err := ToYAML(node)
	require.NoError(t, err)

	again, err := FromYAML(out)
	require.NoError(t, err)
	require.True(t, Equal(node, again))
}

func TestFromYAML_EmptyDocumentIsAbsent(t *testing.T) {
	node, err := FromYAML([]byte(""))
	require.NoError(t, err)
	require.Nil(t, node)
}

func TestClone_SharesNothingWithOriginal(t *testing.T) {
	orig := MustFromAny(map[string]any{"nav": []any{map[string]any{"text": "a"}}}).(Mapping)
	cp := Clone(orig).(Mapping)

	cp["nav"].(Sequence)[0].(Mapping)["text"] = Scalar{Value: "mutated"}

	text, ok := StringField(orig["nav"].(Sequence)[0], "text")
	require.True(t, ok)
	require.Equal(t, "a", text)
}

func TestStringField_OnlyMatchesStringScalars(t *testing.T) {
	n := MustFromAny(map[string]any{"title": "Guide", "count": 3})

	v, ok := StringField(n, "title")
	require.True(t, ok)
	require.Equal(t, "Guide", v)

	_, ok = StringField(n, "count")
	require.False(t, ok)

	_, ok = StringField(n, "missing")
	require.False(t, ok)
}
