package pages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan_FrontmatterTitleWinsOverHeading(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en-US/guide/start.md", "---\ntitle: Authored\ndescription: Intro\n---\n# Heading\n")

	pages, err := Scan(dir, "en-US")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, "Authored", pages[0].Title)
	require.Equal(t, "Intro", pages[0].Description)
	require.Equal(t, "/en-US/guide/start.html", pages[0].SitePath)
}

func TestScan_FirstHeadingUsedWhenNoFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "de-DE/intro.md", "# Erste Schritte\n\nText.\n")

	pages, err := Scan(dir, "de-DE")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, "Erste Schritte", pages[0].Title)
}

func TestScan_IndexPagesCollapseToDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en-US/index.md", "# Home\n")
	writePage(t, dir, "en-US/guide/index.md", "# Guide\n")

	pages, err := Scan(dir, "en-US")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, "/en-US/", pages[0].SitePath)
	require.Equal(t, "/en-US/guide/", pages[1].SitePath)
}

func TestScan_MissingLocaleDirectoryYieldsNoPages(t *testing.T) {
	pages, err := Scan(t.TempDir(), "fr-FR")
	require.NoError(t, err)
	require.Empty(t, pages)
}

func TestScan_NonMarkdownFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en-US/image.png", "not markdown")
	writePage(t, dir, "en-US/page.md", "# P\n")

	pages, err := Scan(dir, "en-US")
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestScan_ResultsSortedBySitePath(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en-US/b.md", "# B\n")
	writePage(t, dir, "en-US/a.md", "# A\n")

	pages, err := Scan(dir, "en-US")
	require.NoError(t, err)
	require.Equal(t, "/en-US/a.html", pages[0].SitePath)
	require.Equal(t, "/en-US/b.html", pages[1].SitePath)
}
