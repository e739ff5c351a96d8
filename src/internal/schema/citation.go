package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Citation is a single record extracted from pasted bibliographic text.
// It is immutable once built; accessors return copies.
type Citation struct {
	title   string
	authors []string
	year    int
	doi     string
	url     string
}

// Option sets an optional field on a Citation at construction time.
type Option func(*Citation)

// WithYear records a four-digit publication year. Non-positive years are ignored.
func WithYear(y int) Option {
	return func(c *Citation) {
		if y > 0 {
			c.year = y
		}
	}
}

// WithDOI records a DOI (without the https://doi.org/ prefix).
func WithDOI(doi string) Option {
	return func(c *Citation) { c.doi = strings.TrimSpace(doi) }
}

// WithURL records an http(s) URL found alongside the citation.
func WithURL(u string) Option {
	return func(c *Citation) { c.url = strings.TrimSpace(u) }
}

// New builds a Citation. Blank author names are dropped; order is preserved.
func New(title string, authors []string, opts ...Option) Citation {
	c := Citation{title: strings.TrimSpace(title)}
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			c.authors = append(c.authors, a)
		}
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c Citation) Title() string { return c.title }

// Authors returns the byline in source order. The slice is a copy.
func (c Citation) Authors() []string {
	if len(c.authors) == 0 {
		return nil
	}
	out := make([]string, len(c.authors))
	copy(out, c.authors)
	return out
}

// Year returns the publication year, or 0 when none was found.
func (c Citation) Year() int { return c.year }

func (c Citation) DOI() string { return c.doi }

func (c Citation) URL() string { return c.url }

// Empty reports whether the citation carries neither a title nor authors.
func (c Citation) Empty() bool { return c.title == "" && len(c.authors) == 0 }

// Record returns the serialisable view of the citation.
func (c Citation) Record() Record {
	authors := c.Authors()
	if authors == nil {
		authors = []string{}
	}
	return Record{
		Title:   c.title,
		Authors: authors,
		Year:    c.year,
		DOI:     c.doi,
		URL:     c.url,
	}
}

func (c Citation) String() string {
	return fmt.Sprintf("%s\t%s", c.title, strings.Join(c.authors, ", "))
}

// Record is the plain, exported shape of a Citation used by the structured
// output formats (json, yaml, toml) and by the published JSON Schema.
type Record struct {
	Title   string   `json:"title" yaml:"title" toml:"title" jsonschema:"description=Title of the work; empty when none was recognised"`
	Authors []string `json:"authors" yaml:"authors" toml:"authors" jsonschema:"description=Author names in byline order"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty" toml:"year,omitempty" jsonschema:"minimum=1000"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty" toml:"doi,omitempty"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty" jsonschema:"format=uri"`
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates an id-friendly slug from title and optional year.
func Slugify(title string, year int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if year > 0 {
		if t == "" {
			return fmt.Sprintf("%d", year)
		}
		return fmt.Sprintf("%s-%d", t, year)
	}
	return t
}
