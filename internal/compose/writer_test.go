package compose

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
)

func testResult() *Result {
	return &Result{
		Locales: map[string]configtree.Node{
			"en-US": configtree.MustFromAny(map[string]any{"title": "Docs"}),
		},
		Order: []string{"en-US"},
	}
}

func TestWriter_YAMLOutputRoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Directory: dir, Format: "yaml"}
	require.NoError(t, w.Write(testResult()))

	data, err := os.ReadFile(filepath.Join(dir, "en-US.yaml"))
	require.NoError(t, err)

	doc, err := configtree.FromYAML(data)
	require.NoError(t, err)
	title, ok := configtree.StringField(doc, "title")
	require.True(t, ok)
	require.Equal(t, "Docs", title)
}

func TestWriter_JSONOutputParses(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Directory: dir, Format: "json"}
	require.NoError(t, w.Write(testResult()))

	data, err := os.ReadFile(filepath.Join(dir, "en-US.json"))
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, "Docs", parsed["title"])
}

func TestWriter_CleanRemovesStaleLocales(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "sv-SE.yaml")
	require.NoError(t, os.WriteFile(stale, []byte("old: true\n"), 0o644))

	w := Writer{Directory: dir, Format: "yaml", Clean: true}
	require.NoError(t, w.Write(testResult()))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "en-US.yaml"))
	require.NoError(t, err)
}
