package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Note is a markdown file split into its YAML frontmatter and body.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content into a Note. Content without a leading fence is all
// body. CRLF line endings are accepted.
func Parse(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence):]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		if !strings.HasSuffix(rest, "\n"+fence) {
			return Note{}, fmt.Errorf("frontmatter is not closed")
		}
		end = len(rest) - len(fence) - 1
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Note{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	body := ""
	if tail := end + len(fence) + 2; tail < len(rest) {
		body = strings.TrimPrefix(rest[tail:], "\n")
	}
	return Note{Meta: meta, Body: body}, nil
}

// Render writes the note back with a blank line between fence and body.
func (n Note) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	if len(n.Meta) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(n.Meta); err != nil {
			return "", fmt.Errorf("encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode frontmatter: %w", err)
		}
	}
	buf.WriteString(fence + "\n\n")
	buf.WriteString(n.Body)
	return buf.String(), nil
}
