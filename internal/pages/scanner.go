// Package pages scans a locale's Markdown content tree for page sources and
// their authored metadata. Titles come from frontmatter when present, else
// from the first ATX heading; the Markdown is parsed, never rendered.
package pages

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
	"git.home.luguber.info/inful/sitecomposer/internal/frontmatter"
)

// Page is one scanned Markdown source with its authored metadata.
type Page struct {
	Locale      string `json:"locale"`
	FilePath    string `json:"file_path"`
	SitePath    string `json:"site_path"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Scan walks <contentDir>/<locale> for Markdown files. A missing locale
// directory yields no pages; partially translated sites are normal. Results
// are sorted by site path for deterministic output.
func Scan(contentDir, locale string) ([]Page, error) {
	root := filepath.Join(contentDir, locale)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var pages []Page
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		page, err := readPage(path, root, locale)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, scerrors.Wrap(err, scerrors.CategoryPages, scerrors.SeverityError, "scan content directory").
			WithContext("locale", locale)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].SitePath < pages[j].SitePath })
	return pages, nil
}

func readPage(path, root, locale string) (Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Locale:   locale,
		FilePath: path,
		SitePath: sitePath(path, root, locale),
	}

	meta, body, had, err := frontmatter.Split(content)
	if err != nil {
		return Page{}, scerrors.Wrap(err, scerrors.CategoryPages, scerrors.SeverityError, "split frontmatter").
			WithContext("file", path)
	}
	if had {
		fields, err := frontmatter.Parse(meta)
		if err != nil {
			return Page{}, scerrors.Wrap(err, scerrors.CategoryPages, scerrors.SeverityError, "parse frontmatter").
				WithContext("file", path)
		}
		page.Title = frontmatter.StringValue(fields, "title")
		page.Description = frontmatter.StringValue(fields, "description")
	}

	if page.Title == "" {
		page.Title = firstHeading(body)
	}
	return page, nil
}

// sitePath maps an on-disk Markdown file to its served path:
// content/de-DE/guide/start.md becomes /de-DE/guide/start.html, with
// index pages collapsing to their directory.
func sitePath(path, root, locale string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, ".md"))
	if rel == "index" {
		return "/" + locale + "/"
	}
	if strings.HasSuffix(rel, "/index") {
		return "/" + locale + "/" + strings.TrimSuffix(rel, "index")
	}
	return "/" + locale + "/" + rel + ".html"
}

// firstHeading returns the text of the first heading in the body, using the
// Goldmark AST. Parsing only; the tree is discarded afterwards.
func firstHeading(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if heading, ok := n.(*gmast.Heading); ok {
			title = headingText(heading, body)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func headingText(heading *gmast.Heading, body []byte) string {
	var b strings.Builder
	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*gmast.Text); ok {
			b.Write(t.Segment.Value(body))
		}
	}
	return strings.TrimSpace(b.String())
}
