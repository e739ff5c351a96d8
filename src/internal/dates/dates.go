package dates

import (
	"regexp"
	"strconv"
	"time"
)

var yearToken = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})[a-z]?\b`)

// parenYear matches an author-date year such as "(2020)", "(2020a)",
// "(2020, May 3)" or "(n.d.)".
var parenYear = regexp.MustCompile(`\(\s*(?:(1[5-9]\d{2}|20\d{2})[a-z]?(?:\s*,[^()]*)?|n\.\s?d\.)\s*\)`)

// ExtractYear scans a string and returns the first plausible 4-digit year, or 0.
// Years after next year are rejected.
func ExtractYear(s string) int {
	limit := time.Now().Year() + 1
	for _, m := range yearToken.FindAllStringSubmatch(s, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y <= limit {
			return y
		}
	}
	return 0
}

// ParenYear locates the first parenthesised author-date year in s. It returns the
// byte span of the parenthetical and the year (0 for "n.d."); ok is false when none exists.
func ParenYear(s string) (start, end, year int, ok bool) {
	loc := parenYear.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, 0, 0, false
	}
	if loc[2] >= 0 {
		year, _ = strconv.Atoi(s[loc[2]:loc[3]])
	}
	return loc[0], loc[1], year, true
}

// StripParenYears removes every author-date parenthetical from s.
func StripParenYears(s string) string {
	return parenYear.ReplaceAllString(s, "")
}
