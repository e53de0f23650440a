package markdown

import "strings"

func blockMarkers(name string) (string, string) {
	return "<!-- estudozen:" + name + " -->", "<!-- /estudozen:" + name + " -->"
}

// UpsertBlock replaces the generated block called name in body, or appends
// it when absent. Text outside the markers is left as the user wrote it.
func UpsertBlock(body, name, generated string) string {
	open, closing := blockMarkers(name)
	block := open + "\n" + strings.TrimRight(generated, "\n") + "\n" + closing

	if start := strings.Index(body, open); start >= 0 {
		if end := strings.Index(body[start:], closing); end >= 0 {
			end += start + len(closing)
			return body[:start] + block + body[end:]
		}
	}
	switch trimmed := strings.TrimRight(body, "\n"); {
	case strings.TrimSpace(trimmed) == "":
		return block + "\n"
	default:
		return trimmed + "\n\n" + block + "\n"
	}
}
