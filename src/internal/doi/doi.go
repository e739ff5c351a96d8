package doi

import (
	"regexp"
	"strings"
)

var doiRegex = regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Z0-9<>]+`)

// Extract extracts a DOI-like token from an arbitrary string containing a DOI or DOI URL.
// Trailing sentence punctuation is not part of the DOI.
func Extract(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	match := doiRegex.FindString(s)
	if match == "" {
		return ""
	}
	match = strings.TrimRight(match, ".,;:")
	// An unbalanced closing paren belongs to the surrounding text.
	for strings.HasSuffix(match, ")") && strings.Count(match, "(") < strings.Count(match, ")") {
		match = strings.TrimSuffix(match, ")")
		match = strings.TrimRight(match, ".,;:")
	}
	return match
}

// URL returns the canonical https://doi.org/ link for a DOI, or "" when doi is empty.
func URL(doi string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}
