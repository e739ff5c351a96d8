// Package ingest turns pasted bibliographic text into citation records.
//
// Input is divided into blocks of non-blank lines separated by blank lines;
// each block yields exactly one schema.Citation. How a block is split into a
// title and a byline is decided by a Strategy. Only read failures are errors.
package ingest

import (
	"io"
	"iter"
	"log/slog"
	"regexp"
	"strings"

	"kcci/src/internal/dates"
	"kcci/src/internal/doi"
	"kcci/src/internal/sanitize"
	"kcci/src/internal/schema"
)

type options struct {
	strategy   Strategy
	splitLines bool
	logger     *slog.Logger
}

// Option configures a parse.
type Option func(*options)

// WithStrategy selects the strategy that splits blocks into title and byline.
// A nil strategy keeps the default.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithSplitLines treats every non-blank line as its own block.
func WithSplitLines(on bool) Option {
	return func(o *options) { o.splitLines = on }
}

// WithLogger receives per-block debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.strategy == nil {
		o.strategy, _ = Lookup(DefaultStrategy)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// ParsePaste reads r to completion and returns one Citation per block, in
// input order. If r fails, it returns a *StreamError and no citations.
func ParsePaste(r io.Reader, opts ...Option) ([]schema.Citation, error) {
	var out []schema.Citation
	for c, err := range Citations(r, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Citations yields citations lazily as blocks are read from r. A read failure
// is yielded once, as a *StreamError with a zero Citation, and ends the sequence.
// The sequence is single-pass: r is consumed as it is iterated.
func Citations(r io.Reader, opts ...Option) iter.Seq2[schema.Citation, error] {
	o := newOptions(opts)
	return func(yield func(schema.Citation, error) bool) {
		sc := newBlockScanner(r, o.splitLines)
		for sc.Next() {
			if !yield(o.citation(sc.Block()), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			o.logger.Debug("read failed", slog.Int("line", sc.line), slog.Any("error", err))
			yield(schema.Citation{}, &StreamError{Line: sc.line, Err: err})
		}
	}
}

// Stream is Citations for a reader the sequence owns. rc is closed when the
// sequence ends, fails, or the consumer stops early. A failed Close after an
// otherwise clean read is reported as a *StreamError.
func Stream(rc io.ReadCloser, opts ...Option) iter.Seq2[schema.Citation, error] {
	inner := Citations(rc, opts...)
	return func(yield func(schema.Citation, error) bool) {
		closed := false
		defer func() {
			if !closed {
				_ = rc.Close()
			}
		}()
		failed := false
		for c, err := range inner {
			if err != nil {
				failed = true
			}
			if !yield(c, err) {
				return
			}
		}
		closed = true
		if err := rc.Close(); err != nil && !failed {
			yield(schema.Citation{}, &StreamError{Err: err})
		}
	}
}

var urlRe = regexp.MustCompile(`https?://[^\s<>"“”]+`)

func (o options) citation(b Block) schema.Citation {
	f, ok := o.strategy.Extract(b)
	if !ok {
		f = Fields{Rule: o.strategy.Name()}
	}
	title := sanitize.CleanTitle(f.Title)
	authors := sanitize.CleanNames(f.Authors)

	raw := b.Raw()
	d := doi.Extract(raw)
	link := findURL(raw)
	year := findYear(raw, d, link)

	o.logger.Debug("parsed block",
		slog.Int("block", b.Index),
		slog.Int("line", b.Line),
		slog.String("rule", f.Rule),
		slog.Bool("has_title", title != ""),
		slog.Int("authors", len(authors)))

	c := schema.New(title, authors, schema.WithYear(year), schema.WithDOI(d), schema.WithURL(link))
	if c.Empty() {
		o.logger.Debug("block not recognised", slog.Int("block", b.Index), slog.Int("line", b.Line))
	}
	return c
}

func findURL(s string) string {
	m := urlRe.FindString(s)
	m = strings.TrimRight(m, ".,;:")
	for strings.HasSuffix(m, ")") && strings.Count(m, "(") < strings.Count(m, ")") {
		m = strings.TrimRight(strings.TrimSuffix(m, ")"), ".,;:")
	}
	return sanitize.CleanURL(m)
}

// findYear prefers an author-date parenthetical and ignores digits inside
// identifiers.
func findYear(s, d, link string) int {
	for _, id := range []string{link, d} {
		if id != "" {
			s = strings.ReplaceAll(s, id, " ")
		}
	}
	if _, _, y, ok := dates.ParenYear(s); ok && y > 0 {
		return y
	}
	return dates.ExtractYear(s)
}
