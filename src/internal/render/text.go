package render

import (
	"fmt"
	"io"
	"strings"

	"kcci/src/internal/doi"
	"kcci/src/internal/names"
	"kcci/src/internal/schema"
)

// writeTSV prints one "<title>\t<author1>, <author2>" line per citation.
func writeTSV(w io.Writer, cs []schema.Citation) error {
	for _, c := range cs {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeAPA(w io.Writer, cs []schema.Citation) error {
	for _, c := range cs {
		if _, err := fmt.Fprintln(w, APACitation(c)); err != nil {
			return err
		}
	}
	return nil
}

// APACitation renders an APA-style reference line from the parsed fields.
func APACitation(c schema.Citation) string {
	authors := formatAPAAuthors(c.Authors())
	year := "n.d."
	if c.Year() > 0 {
		year = fmt.Sprintf("%d", c.Year())
	}
	title := strings.TrimSpace(c.Title())

	var b strings.Builder
	if authors != "" {
		b.WriteString(authors)
		b.WriteString(" ")
	}
	b.WriteString("(" + year + "). ")
	if title != "" {
		b.WriteString(title)
		if !strings.HasSuffix(title, "?") && !strings.HasSuffix(title, "!") {
			b.WriteString(".")
		}
		b.WriteString(" ")
	}
	if d := c.DOI(); d != "" {
		b.WriteString(doi.URL(d))
	} else if u := c.URL(); u != "" {
		b.WriteString(u)
	}
	return strings.TrimSpace(b.String())
}

func formatAPAAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		if s := formatAPAAuthor(a); s != "" {
			parts = append(parts, s)
		}
	}
	return joinOxfordAmp(parts)
}

func formatAPAAuthor(name string) string {
	fam, gi := names.Split(name)
	if fam == "" {
		return ""
	}
	if gi != "" {
		return fmt.Sprintf("%s, %s", fam, gi)
	}
	return fam
}

func joinOxfordAmp(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + ", & " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", & " + parts[len(parts)-1]
	}
}
