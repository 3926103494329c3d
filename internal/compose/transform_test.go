package compose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
)

func TestTransform_LinkSpliceInsertsPrefixAfterOldPrefix(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{"link": "/en-US/foo"})

	got := Transform("/guide", src, "/en-US", nil)

	want := configtree.MustFromAny(map[string]any{"link": "/en-US/guide/foo"})
	require.True(t, configtree.Equal(want, got))
}

func TestTransform_ExternalLinkPassesThrough(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{"link": "https://example.com/docs"})

	got := Transform("/guide", src, "/en-US", nil)
	require.True(t, configtree.Equal(src, got))
}

func TestTransform_ActiveMatchAnchoredAtRelocatedRoot(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{"activeMatch": "/bar"})

	got := Transform("/en-US", src, "", nil)

	want := configtree.MustFromAny(map[string]any{"activeMatch": "^/en-US/bar"})
	require.True(t, configtree.Equal(want, got))
}

func TestTransform_SidebarSequenceWrappedUnderRelocatedRootKey(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{
		"sidebar": []any{map[string]any{"text": "x", "link": "/en-US/x"}},
	})

	got := Transform("/en-US", src, "", nil)

	want := configtree.MustFromAny(map[string]any{
		"sidebar": map[string]any{
			"/en-US/": []any{map[string]any{"text": "x", "link": "/en-US/x"}},
		},
	})
	require.True(t, configtree.Equal(want, got))
}

func TestTransform_SidebarMappingKeysSplicedAndValuesTransformed(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{
		"sidebar": map[string]any{
			"/de-DE/guide/": []any{map[string]any{"text": "Start", "link": "/de-DE/guide/start"}},
		},
	})

	got := Transform("/plugin-b", src, "/de-DE", nil)

	want := configtree.MustFromAny(map[string]any{
		"sidebar": map[string]any{
			"/de-DE/plugin-b/guide/": []any{map[string]any{"text": "Start", "link": "/de-DE/plugin-b/guide/start"}},
		},
	})
	require.True(t, configtree.Equal(want, got))
}

func TestTransform_UnrecognizedKeysRecurseGenerically(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{
		"nav": []any{map[string]any{"text": "Guide", "link": "/de-DE/guide"}},
	})

	got := Transform("/plugin-b", src, "/de-DE", nil)

	want := configtree.MustFromAny(map[string]any{
		"nav": []any{map[string]any{"text": "Guide", "link": "/de-DE/plugin-b/guide"}},
	})
	require.True(t, configtree.Equal(want, got))
}

func TestTransform_SequenceOrderAndLengthPreserved(t *testing.T) {
	src := configtree.MustFromAny([]any{
		map[string]any{"link": "/en-US/a"},
		map[string]any{"link": "/en-US/b"},
		"plain",
	})

	got := Transform("/x", src, "/en-US", nil).(configtree.Sequence)
	require.Len(t, got, 3)

	first, _ := configtree.StringField(got[0], "link")
	second, _ := configtree.StringField(got[1], "link")
	require.Equal(t, "/en-US/x/a", first)
	require.Equal(t, "/en-US/x/b", second)
	require.True(t, configtree.Equal(configtree.Scalar{Value: "plain"}, got[2]))
}

func TestTransform_DoesNotMutateSource(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{"link": "/en-US/foo"})
	orig := configtree.Clone(src)

	_ = Transform("/guide", src, "/en-US", nil)
	require.True(t, configtree.Equal(orig, src))
}

func TestTransform_SpliceViolationWarnsButStillProducesOutput(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{"link": "/other/foo"})

	var warnings []Warning
	got := Transform("/guide", src, "/en-US", func(w Warning) { warnings = append(warnings, w) })

	require.Len(t, warnings, 1)
	require.Equal(t, "link", warnings[0].Field)
	require.Equal(t, "/other/foo", warnings[0].Value)
	require.Equal(t, "/en-US", warnings[0].OldPrefix)

	// The splice shape is preserved even when the precondition fails.
	link, ok := configtree.StringField(got, "link")
	require.True(t, ok)
	require.Equal(t, "/en-US/guide/foo", link)
}

func TestTransform_SidebarKeyViolationWarnsWithFieldName(t *testing.T) {
	src := configtree.MustFromAny(map[string]any{
		"sidebar": map[string]any{"/wrong/": []any{}},
	})

	var warnings []Warning
	_ = Transform("/plugin-b", src, "/de-DE", func(w Warning) { warnings = append(warnings, w) })

	require.Len(t, warnings, 1)
	require.Equal(t, "sidebar", warnings[0].Field)
}
