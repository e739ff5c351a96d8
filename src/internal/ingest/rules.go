package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"kcci/src/internal/dates"
	"kcci/src/internal/names"
)

// Built-in strategies. Auto, the default, chains AuthorDate, Quoted, Lines,
// Sentences and Fallback in that order.
var (
	Quoted      Strategy = StrategyFunc{ID: "quoted", Fn: extractQuoted}
	AuthorDate  Strategy = StrategyFunc{ID: "year", Fn: extractAuthorDate}
	Lines       Strategy = StrategyFunc{ID: "lines", Fn: extractLines}
	Sentences   Strategy = StrategyFunc{ID: "sentences", Fn: extractSentences}
	BylineFirst Strategy = StrategyFunc{ID: "byline-first", Fn: extractBylineFirst}
	TitleFirst  Strategy = StrategyFunc{ID: "title-first", Fn: extractTitleFirst}
	Fallback    Strategy = StrategyFunc{ID: "fallback", Fn: extractFallback}
)

type quoteStyle struct {
	re          *regexp.Regexp
	open, close string
}

var quoteStyles = []quoteStyle{
	{regexp.MustCompile(`"([^"]+)"`), `"`, `"`},
	{regexp.MustCompile(`“([^”]+)”`), `“`, `”`},
	{regexp.MustCompile(`«([^»]+)»`), `«`, `»`},
	{regexp.MustCompile(`\*([^*]+)\*`), `*`, `*`},
	{regexp.MustCompile(`(?:^|\s)_([^_]+)_`), `_`, `_`},
}

// splitQuoted finds the earliest quoted or emphasised span in s and returns
// the text before it, its contents, and the text after it.
func splitQuoted(s string) (pre, inner, post string, ok bool) {
	best := -1
	var bestLoc []int
	var bestStyle quoteStyle
	for _, qs := range quoteStyles {
		loc := qs.re.FindStringSubmatchIndex(s)
		if loc == nil || !hasLetter(s[loc[2]:loc[3]]) {
			continue
		}
		if best == -1 || loc[2] < best {
			best, bestLoc, bestStyle = loc[2], loc, qs
		}
	}
	if best == -1 {
		return "", "", "", false
	}
	pre = strings.TrimRight(s[:bestLoc[2]], bestStyle.open)
	post = strings.TrimLeft(s[bestLoc[3]:], bestStyle.close)
	return pre, s[bestLoc[2]:bestLoc[3]], post, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var bareYear = regexp.MustCompile(`\b(?:1[5-9]|20)\d{2}[a-z]?\b`)

var byLead = regexp.MustCompile(`(?i)^\s*by\s+`)

// cleanByline removes years and dangling separators around a byline fragment.
func cleanByline(s string) string {
	s = dates.StripParenYears(s)
	s = bareYear.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, ".,;: ")
	s = strings.TrimRight(s, ",;: ")
	if !hasLetter(s) {
		return ""
	}
	return s
}

// bylineNames splits a fragment known to hold the byline. Parts that do not
// look like names are dropped unless the whole fragment reads as a byline.
func bylineNames(s string) []string {
	list := names.SplitList(s)
	if names.LooksLikeByline(s) {
		return list
	}
	var out []string
	for _, n := range list {
		if names.IsNameLike(n) {
			out = append(out, n)
		}
	}
	return out
}

func extractQuoted(b Block) (Fields, bool) {
	pre, title, post, ok := splitQuoted(b.Text())
	if !ok {
		return Fields{}, false
	}
	f := Fields{Title: title}
	if pre = cleanByline(pre); pre != "" {
		f.Authors = bylineNames(pre)
		return f, true
	}
	post = strings.TrimLeft(post, ".,;: ")
	if byLead.MatchString(post) {
		seg := firstSentence(byLead.ReplaceAllString(post, ""))
		for _, n := range names.SplitList(cleanByline(seg)) {
			if !names.IsNameLike(n) {
				break
			}
			f.Authors = append(f.Authors, n)
		}
		return f, true
	}
	if seg := cleanByline(firstSentence(post)); names.LooksLikeByline(seg) {
		f.Authors = names.SplitList(seg)
	}
	return f, true
}

func extractAuthorDate(b Block) (Fields, bool) {
	text := b.Text()
	start, end, _, ok := dates.ParenYear(text)
	if !ok {
		return Fields{}, false
	}
	pre := cleanByline(text[:start])
	if pre == "" || !names.LooksLikeByline(pre) {
		return Fields{}, false
	}
	rest := strings.TrimLeft(text[end:], ".,;: ")
	return Fields{Title: firstSentence(rest), Authors: names.SplitList(pre)}, true
}

// pair decides which of two adjacent fragments is the byline. An explicit
// byline marker wins; otherwise the first fragment is taken as the title.
func pair(first, second string) (Fields, bool) {
	b1, b2 := names.LooksLikeByline(first), names.LooksLikeByline(second)
	switch {
	case b1 && (names.HasSeparator(first) || !b2):
		return Fields{Title: second, Authors: names.SplitList(first)}, true
	case b2:
		return Fields{Title: first, Authors: names.SplitList(second)}, true
	}
	return Fields{}, false
}

var (
	trailingSep = regexp.MustCompile(`(?i)(?:[,;&]|\band)\s*$`)
	leadingSep  = regexp.MustCompile(`(?i)^(?:&|and\b)`)
)

// joinWrapped rejoins a byline that was wrapped across lines: a line ending
// in a separator, or followed by one starting with "and" or "&", continues
// into the next when the joined text still reads as a byline.
func joinWrapped(lines []string) []string {
	out := []string{lines[0]}
	for _, l := range lines[1:] {
		cur := out[len(out)-1]
		joined := cur + " " + l
		if (trailingSep.MatchString(cur) || leadingSep.MatchString(l)) && names.LooksLikeByline(joined) {
			out[len(out)-1] = joined
			continue
		}
		out = append(out, l)
	}
	return out
}

var byMarker = regexp.MustCompile(`(?i)[,;]?\s+by\s+`)

// splitMarked splits a fragment at an explicit byline marker: a trailing
// "by <names>", or a leading list of several names ended by ": ".
// Names after "by" need at least two words each, so "Stand by Me" stays whole.
func splitMarked(s string) (Fields, bool) {
	for _, loc := range byMarker.FindAllStringIndex(s, -1) {
		title := strings.TrimRight(s[:loc[0]], ",;: ")
		byline := cleanByline(s[loc[1]:])
		if title == "" || !names.LooksLikeByline(byline) {
			continue
		}
		list := names.SplitList(byline)
		full := true
		for _, n := range list {
			if len(strings.Fields(n)) < 2 {
				full = false
				break
			}
		}
		if full {
			return Fields{Title: title, Authors: list}, true
		}
	}
	if i := strings.Index(s, ": "); i > 0 {
		pre, post := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+2:])
		if post != "" && names.HasSeparator(pre) && names.LooksLikeByline(pre) {
			return Fields{Title: post, Authors: names.SplitList(pre)}, true
		}
	}
	return Fields{}, false
}

func extractLines(b Block) (Fields, bool) {
	if len(b.Lines) < 2 {
		return Fields{}, false
	}
	lines := joinWrapped(b.Lines)
	if len(lines) == 1 {
		if names.HasSeparator(lines[0]) && names.LooksLikeByline(lines[0]) {
			return Fields{Authors: names.SplitList(lines[0])}, true
		}
		return Fields{}, false
	}
	if f, ok := splitMarked(lines[0]); ok {
		return f, true
	}
	return pair(lines[0], lines[1])
}

func extractSentences(b Block) (Fields, bool) {
	ss := splitSentences(b.Text())
	if len(ss) == 0 {
		return Fields{}, false
	}
	if f, ok := splitMarked(ss[0]); ok {
		return f, true
	}
	if len(ss) < 2 {
		return Fields{}, false
	}
	return pair(ss[0], ss[1])
}

// headRest splits a block into its first line (or sentence, for single-line
// blocks) and the remainder.
func headRest(b Block) (head, rest string) {
	if len(b.Lines) > 1 {
		return b.Lines[0], strings.Join(b.Lines[1:], " ")
	}
	ss := splitSentences(b.Text())
	if len(ss) == 0 {
		return "", ""
	}
	if len(ss) == 1 {
		return ss[0], ""
	}
	return ss[0], ss[1]
}

func extractBylineFirst(b Block) (Fields, bool) {
	head, rest := headRest(b)
	return Fields{Title: rest, Authors: names.SplitList(cleanByline(head))}, true
}

func extractTitleFirst(b Block) (Fields, bool) {
	head, rest := headRest(b)
	return Fields{Title: head, Authors: names.SplitList(cleanByline(rest))}, true
}

func extractFallback(b Block) (Fields, bool) {
	text := b.Text()
	if names.HasSeparator(text) && names.LooksLikeByline(text) {
		return Fields{Authors: names.SplitList(text)}, true
	}
	if len(b.Lines) > 1 {
		return Fields{Title: b.Lines[0]}, true
	}
	if ss := splitSentences(text); len(ss) > 1 {
		return Fields{Title: ss[0]}, true
	}
	return Fields{Title: text}, true
}
