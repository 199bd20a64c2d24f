package linkcheck

import (
	"regexp"
	"strings"
)

// urlPattern matches http/https URLs and bare www. hosts in plain text.
// Document text is plain (post docx extraction), so delimiters are
// whitespace and common quoting characters.
var urlPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"'` + "`" + `]+`)

// ExtractURLs scans raw document text for syntactically valid links.
// Exact-string duplicates are removed; the first-seen order is preserved
// and drives the final report ordering.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var urls []string
	for _, m := range matches {
		u := CleanURL(m)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// CleanURL trims whitespace and sentence punctuation that document text
// tends to glue onto the end of a link.
func CleanURL(raw string) string {
	u := strings.TrimSpace(raw)
	for len(u) > 0 {
		switch u[len(u)-1] {
		case '.', ',', ';', ')', ']':
			u = u[:len(u)-1]
		default:
			return u
		}
	}
	return u
}
