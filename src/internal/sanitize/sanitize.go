package sanitize

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanString NFC-normalises s, trims it, and removes control characters except
// tab/newline/carriage return, up to max bytes (if max <= 0, no truncation).
func CleanString(s string, max int) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return s
	}
	// remove controls except \n, \t, \r
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || (r >= 0x20 && r != 0x7f && r != '\uFEFF') {
			if max > 0 && b.Len()+len(string(r)) > max {
				break
			}
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanLine cleans a single input line: control characters are dropped and
// runs of whitespace (including tabs and non-breaking spaces) collapse to one space.
func CleanLine(s string) string {
	return strings.Join(strings.Fields(CleanString(s, 0)), " ")
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	// remove embedded whitespace
	u.Path = strings.ReplaceAll(u.Path, " ", "%20")
	return u.String()
}

func titleEdge(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '"', '“', '”', '«', '»', '*', '_':
		return true
	}
	return false
}

// CleanTitle trims whitespace, enclosing quotes or emphasis markers, and
// trailing separators from a title. Terminal "?" and "!" are kept.
func CleanTitle(s string) string {
	s = CleanLine(s)
	s = strings.TrimFunc(s, titleEdge)
	if max := 1024; len(s) > max {
		s = CleanString(s, max)
	}
	return s
}

// CleanNames sanitises author names, dropping empties and preserving order.
func CleanNames(authors []string) []string {
	if len(authors) == 0 {
		return nil
	}
	const max = 256
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		a = CleanLine(CleanString(a, max))
		if a == "" {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
