package ingest

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"kcci/src/internal/sanitize"
)

// Block is one citation candidate: a run of non-blank lines.
type Block struct {
	// Index is the zero-based position of the block in the input.
	Index int
	// Line is the one-based input line number of the block's first line.
	Line int
	// Lines holds the cleaned, non-blank lines. A leading list marker
	// ("1.", "[3]", "-") has been removed from the first line.
	Lines []string
}

// Text returns the block as one logical line. Hyphenated line wraps
// ("wid-" / "gets") are joined without the hyphen.
func (b Block) Text() string {
	var sb strings.Builder
	for i, l := range b.Lines {
		if i > 0 {
			prev := b.Lines[i-1]
			if softHyphen(prev, l) {
				s := sb.String()
				sb.Reset()
				sb.WriteString(strings.TrimSuffix(s, "-"))
				sb.WriteString(l)
				continue
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(l)
	}
	return sb.String()
}

// Raw returns the block lines joined with spaces, without hyphen repair.
func (b Block) Raw() string { return strings.Join(b.Lines, " ") }

func softHyphen(prev, next string) bool {
	if len(prev) < 2 || !strings.HasSuffix(prev, "-") || next == "" {
		return false
	}
	before := []rune(prev[:len(prev)-1])
	if !unicode.IsLetter(before[len(before)-1]) {
		return false
	}
	for _, r := range next {
		return unicode.IsLower(r)
	}
	return false
}

var listMarker = regexp.MustCompile(`^(?:\[\d{1,4}\]|\(\d{1,4}\)|\d{1,3}[.)]|[-*•·–])\s+`)

// blockScanner groups input lines into blocks, one Next call at a time.
// Lines are read with no length limit.
type blockScanner struct {
	r          *bufio.Reader
	splitLines bool
	line       int
	index      int
	cur        Block
	err        error
	eof        bool
}

func newBlockScanner(r io.Reader, splitLines bool) *blockScanner {
	return &blockScanner{r: bufio.NewReaderSize(r, 64*1024), splitLines: splitLines}
}

// readLine returns the next line without its terminator. A final line with
// no newline is returned; a line cut short by a read error is not.
func (s *blockScanner) readLine() (string, bool) {
	if s.eof || s.err != nil {
		return "", false
	}
	l, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
			return "", false
		}
		s.eof = true
		if l == "" {
			return "", false
		}
	}
	l = strings.TrimSuffix(l, "\n")
	return strings.TrimSuffix(l, "\r"), true
}

// Next advances to the next non-empty block. It returns false at end of
// input or on a read error; Err distinguishes the two.
func (s *blockScanner) Next() bool {
	var lines []string
	start := 0
	for {
		raw, ok := s.readLine()
		if !ok {
			break
		}
		s.line++
		l := sanitize.CleanLine(raw)
		if len(lines) == 0 {
			l = listMarker.ReplaceAllString(l, "")
		}
		if l == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if len(lines) == 0 {
			start = s.line
		}
		lines = append(lines, l)
		if s.splitLines {
			break
		}
	}
	if len(lines) == 0 || s.err != nil {
		return false
	}
	s.cur = Block{Index: s.index, Line: start, Lines: lines}
	s.index++
	return true
}

func (s *blockScanner) Block() Block { return s.cur }

func (s *blockScanner) Err() error { return s.err }
