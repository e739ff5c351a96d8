package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kcci/src/internal/names"
	"kcci/src/internal/schema"
)

func writeBibTeX(w io.Writer, cs []schema.Citation) error {
	seen := map[string]bool{}
	for _, c := range cs {
		base := bibKeyFor(c)
		key := base
		for n := 0; seen[key]; n++ {
			key = base + keySuffix(n)
		}
		seen[key] = true
		if _, err := io.WriteString(w, citationToBibTeX(c, key)); err != nil {
			return err
		}
	}
	return nil
}

// keySuffix returns "a".."z" for the first 26 repeats of a key, then the
// occurrence number.
func keySuffix(n int) string {
	if n < 26 {
		return string(rune('a' + n))
	}
	return strconv.Itoa(n + 2)
}

// citationToBibTeX converts a Citation into a @misc BibTeX record string.
func citationToBibTeX(c schema.Citation, key string) string {
	var fields []string
	w := func(k, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		fields = append(fields, fmt.Sprintf("  %s = {%s}", k, escapeBib(v)))
	}
	w("author", formatBibAuthors(c.Authors()))
	w("title", c.Title())
	if c.Year() > 0 {
		w("year", fmt.Sprintf("%d", c.Year()))
	}
	w("doi", c.DOI())
	w("url", c.URL())

	var b bytes.Buffer
	fmt.Fprintf(&b, "@misc{%s", key)
	for _, f := range fields {
		b.WriteString(",\n")
		b.WriteString(f)
	}
	b.WriteString("\n}\n\n")
	return b.String()
}

func escapeBib(s string) string {
	// Minimal escaping; preserve LaTeX-friendly characters as-is
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "{", "\\{")
	s = strings.ReplaceAll(s, "}", "\\}")
	return strings.TrimSpace(s)
}

// formatBibAuthors joins names as "Family, Given and Family, Given".
func formatBibAuthors(authors []string) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		fam, giv := names.SplitFull(a)
		switch {
		case fam == "" && giv == "":
			continue
		case giv == "":
			parts = append(parts, fam)
		default:
			parts = append(parts, fmt.Sprintf("%s, %s", fam, giv))
		}
	}
	return strings.Join(parts, " and ")
}

// bibKeyFor builds "<family><year><firstword>" from the first author, year and title.
func bibKeyFor(c schema.Citation) string {
	var fam string
	if as := c.Authors(); len(as) > 0 {
		fam, _ = names.SplitFull(as[0])
	}
	word := ""
	for _, w := range strings.Split(schema.Slugify(c.Title(), 0), "-") {
		if len(w) > 3 || word == "" {
			word = w
			if len(w) > 3 {
				break
			}
		}
	}
	k := strings.ReplaceAll(schema.Slugify(fam, c.Year())+word, "-", "")
	if k == "" {
		k = "entry"
	}
	return k
}
