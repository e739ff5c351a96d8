package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations end in a period without ending a sentence.
var abbreviations = map[string]bool{
	"al": true, "ed": true, "eds": true, "vol": true, "vols": true, "no": true,
	"pp": true, "p": true, "dr": true, "mr": true, "mrs": true, "ms": true,
	"prof": true, "st": true, "jr": true, "sr": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "trans": true, "rev": true, "ch": true,
	"fig": true, "cf": true, "dept": true, "univ": true, "assoc": true,
}

// splitSentences splits s at ".", "?" and "!" followed by a space or the end
// of input. Periods after initials ("A.") and common abbreviations do not
// split. "?" and "!" stay with their sentence; periods are dropped.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' {
			continue
		}
		if c == '.' && !sentenceEnd(s[start:i]) {
			continue
		}
		seg := s[start:i]
		if c != '.' {
			seg = s[start : i+1]
		}
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func sentenceEnd(before string) bool {
	f := strings.Fields(before)
	if len(f) == 0 {
		return false
	}
	w := strings.TrimLeft(f[len(f)-1], "([\"“")
	if w == "" {
		return true
	}
	if utf8.RuneCountInString(w) == 1 {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) {
			return false
		}
	}
	if strings.Contains(w, ".") {
		return false
	}
	return !abbreviations[strings.ToLower(w)]
}

func firstSentence(s string) string {
	ss := splitSentences(strings.TrimSpace(s))
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
