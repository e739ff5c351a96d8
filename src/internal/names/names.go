package names

import (
	"regexp"
	"strings"
	"unicode"
)

// Initials converts a given name string into spaced initials: "Jane Q" -> "J. Q.".
func Initials(given string) string {
	given = strings.TrimSpace(given)
	if given == "" {
		return ""
	}
	var out []string
	for _, w := range strings.Fields(given) {
		for _, part := range strings.Split(w, "-") {
			r := []rune(strings.Trim(part, "."))
			if len(r) == 0 {
				continue
			}
			out = append(out, strings.ToUpper(string(r[0]))+".")
		}
	}
	return strings.Join(out, " ")
}

// Split splits a full name into (family, givenInitials). It accepts either
// "Family, Given Names" or "Given Names Family" and returns initials for given.
// Lowercase particles ("van", "de") stay with the family name.
func Split(name string) (family, givenInitials string) {
	family, given := SplitFull(name)
	return family, Initials(given)
}

// SplitFull is Split without reducing the given names to initials.
func SplitFull(name string) (family, given string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if i := strings.Index(name, ","); i >= 0 {
		family = strings.TrimSpace(name[:i])
		var givens []string
		for _, g := range strings.Split(name[i+1:], ",") {
			if g = strings.TrimSpace(g); g != "" && !isSuffix(g) {
				givens = append(givens, g)
			}
		}
		return family, strings.Join(givens, " ")
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return parts[0], ""
	}
	cut := len(parts) - 1
	for cut > 1 && isParticle(parts[cut-1]) {
		cut--
	}
	if isSuffix(parts[len(parts)-1]) && cut == len(parts)-1 && len(parts) > 2 {
		cut--
	}
	return strings.Join(parts[cut:], " "), strings.Join(parts[:cut], " ")
}

// separator matches the punctuation and conjunctions that divide names in a byline.
var separator = regexp.MustCompile(`(?i)\s*(?:,\s*(?:and\b|&)|\band\b|&|,)\s*`)

var etAl = regexp.MustCompile(`(?i),?\s*\bet\.?\s+al\b\.?`)

var byPrefix = regexp.MustCompile(`(?i)^\s*(?:by|authors?:?)\s+`)

// SplitList splits a byline into individual names, keeping their order.
// Names may be separated by commas, semicolons, "and" or "&". Inverted
// names ("Smith, A. B.") are kept together.
func SplitList(byline string) []string {
	s := strings.TrimSpace(byline)
	s = byPrefix.ReplaceAllString(s, "")
	s = etAl.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	if strings.Contains(s, ";") {
		var out []string
		for _, p := range strings.Split(s, ";") {
			for _, n := range SplitList(p) {
				out = append(out, n)
			}
		}
		return out
	}

	type piece struct {
		text     string
		afterAnd bool
	}
	var pieces []piece
	last, afterAnd := 0, false
	for _, loc := range separator.FindAllStringIndex(s, -1) {
		pieces = append(pieces, piece{text: s[last:loc[0]], afterAnd: afterAnd})
		sep := strings.ToLower(s[loc[0]:loc[1]])
		afterAnd = strings.Contains(sep, "and") || strings.Contains(sep, "&")
		last = loc[1]
	}
	pieces = append(pieces, piece{text: s[last:], afterAnd: afterAnd})

	var out []string
	var joinable []bool
	for _, p := range pieces {
		t := TrimName(p.text)
		if t == "" {
			continue
		}
		if len(out) > 0 && !p.afterAnd && (IsInitials(t) || isSuffix(t)) && !IsInitials(out[len(out)-1]) {
			out[len(out)-1] += ", " + t
			joinable[len(joinable)-1] = false
			continue
		}
		out = append(out, t)
		joinable = append(joinable, !p.afterAnd)
	}

	// "Smith, Alice, and Bob Lee": only the first name is inverted.
	if len(out) >= 2 && joinable[0] && joinable[1] &&
		wordCount(out[0]) == 1 && wordCount(out[1]) <= 2 && !strings.Contains(out[1], ",") &&
		(len(out) == 2 || wordCount(out[2]) > 1) {
		merged := out[0] + ", " + out[1]
		out = append([]string{merged}, out[2:]...)
	}
	return out
}

func isEdgePunct(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?', '"', '\'', '(', ')', '[', ']', '{', '}', '*', '_',
		'“', '”', '‘', '’', '«', '»', '-', '–', '—':
		return true
	}
	return false
}

// TrimName trims surrounding whitespace and punctuation from a single name.
// A trailing period is kept when the name ends in an initial or "Jr.".
func TrimName(s string) string {
	s = strings.TrimLeftFunc(strings.TrimSpace(s), isEdgePunct)
	core := strings.TrimRightFunc(s, isEdgePunct)
	if core == "" {
		return ""
	}
	tail := s[len(core):]
	if strings.HasPrefix(tail, ".") {
		f := strings.Fields(core)
		lastWord := f[len(f)-1]
		if isInitialToken(lastWord+".") || isSuffix(lastWord) {
			core += "."
		}
	}
	return strings.Join(strings.Fields(core), " ")
}

var initialToken = regexp.MustCompile(`^\p{Lu}\.(?:-?\p{Lu}\.)*$`)

func isInitialToken(w string) bool { return initialToken.MatchString(w) }

// IsInitials reports whether s consists only of initials, e.g. "A." or "J.-P. K.".
func IsInitials(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	for _, w := range f {
		if !isInitialToken(w) {
			return false
		}
	}
	return true
}

var particles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true, "del": true, "della": true,
	"da": true, "di": true, "du": true, "la": true, "le": true, "dos": true, "das": true,
	"bin": true, "ibn": true, "al": true, "ter": true, "ten": true, "zu": true, "y": true,
}

func isParticle(w string) bool { return particles[w] }

var suffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "phd": true}

func isSuffix(w string) bool {
	return suffixes[strings.ToLower(strings.Trim(w, ".,"))]
}

// titleWords never occur inside a person's name but are common in titles.
var titleWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "on": true, "in": true, "for": true,
	"to": true, "with": true, "from": true, "toward": true, "towards": true, "via": true,
	"how": true, "why": true, "what": true, "when": true, "is": true, "are": true,
	"into": true, "using": true, "through": true, "between": true, "vs": true, "versus": true,
}

// IsNameLike reports whether s plausibly names a single person or group:
// one to four capitalised words, optionally with initials, particles and suffixes.
func IsNameLike(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	words := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(words) > 6 {
		return false
	}
	content := 0
	for _, w := range words {
		switch {
		case isInitialToken(w):
			continue
		case isSuffix(w):
			continue
		case isParticle(w):
			continue
		}
		if titleWords[strings.ToLower(w)] {
			return false
		}
		if !nameWord(w) {
			return false
		}
		content++
	}
	return content >= 1 && content <= 4
}

func nameWord(w string) bool {
	first := true
	for _, r := range w {
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		if !unicode.IsLetter(r) && r != '\'' && r != '’' && r != '-' && r != '.' {
			return false
		}
	}
	return !first
}

// HasSeparator reports whether a byline carries an explicit marker: a list
// separator, an inverted name, or a leading "by".
func HasSeparator(s string) bool {
	if byPrefix.MatchString(s) || strings.Contains(s, ";") {
		return true
	}
	return separator.MatchString(strings.TrimSpace(s))
}

// LooksLikeByline reports whether every name in s is name-like.
func LooksLikeByline(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
	}
	list := SplitList(s)
	if len(list) == 0 {
		return false
	}
	for _, n := range list {
		if !IsNameLike(n) {
			return false
		}
	}
	return true
}

func wordCount(s string) int { return len(strings.Fields(s)) }
