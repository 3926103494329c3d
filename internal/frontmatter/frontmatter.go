// Package frontmatter splits `---` delimited YAML frontmatter from Markdown
// page sources. Only reading is supported; sitecomposer never rewrites pages.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates an opening --- with no closing ---.
var ErrMissingClosingDelimiter = errors.New("frontmatter: missing closing delimiter")

// Split separates YAML frontmatter from the Markdown body. A document that
// does not open with --- has no frontmatter; had is false and body is the
// full input. Both LF and CRLF line endings are accepted.
func Split(content []byte) (meta []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if bytes.HasPrefix(content, []byte("---\r\n")) {
		nl = []byte("\r\n")
	} else if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content, false, nil
	}

	open := append([]byte("---"), nl...)
	rest := content[len(open):]

	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := append(append(append([]byte{}, nl...), []byte("---")...), nl...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// Parse decodes raw frontmatter (without delimiters) into a mapping.
func Parse(meta []byte) (map[string]any, error) {
	if len(meta) == 0 {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(meta, &out); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return out, nil
}

// StringValue returns a frontmatter field as a string when present.
func StringValue(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
