package ingest

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kcci/src/internal/schema"
)

func parse(t *testing.T, in string, opts ...Option) []schema.Citation {
	t.Helper()
	out, err := ParsePaste(strings.NewReader(in), opts...)
	require.NoError(t, err)
	return out
}

func TestParsePaste_BylineThenQuotedTitle(t *testing.T) {
	out := parse(t, "Alice Smith, Bob Lee\n\"A Study of Widgets\"\n")
	require.Len(t, out, 1)
	assert.Equal(t, "A Study of Widgets", out[0].Title())
	assert.Equal(t, []string{"Alice Smith", "Bob Lee"}, out[0].Authors())
}

func TestParsePaste_TwoBlocksInOrder(t *testing.T) {
	in := "Alice Smith, Bob Lee\n\"A Study of Widgets\"\n\nCarol King\n\"Gadgets Revisited\"\n"
	out := parse(t, in)
	require.Len(t, out, 2)
	assert.Equal(t, "A Study of Widgets", out[0].Title())
	assert.Equal(t, "Gadgets Revisited", out[1].Title())
	assert.Equal(t, []string{"Carol King"}, out[1].Authors())
}

func TestParsePaste_OneCitationPerBlock(t *testing.T) {
	blocks := []string{
		"Alice Smith, Bob Lee\n\"A Study of Widgets\"",
		"???",
		"Smith, A., & Lee, B. (2020). Widgets at scale. Journal of Widgets, 3(2), 1-10.",
		"just some words without structure",
		"Alice Smith, Bob Lee",
	}
	in := "\n\n" + strings.Join(blocks, "\n\n\n") + "\n\n   \n\t\n"
	out := parse(t, in)
	require.Len(t, out, len(blocks))
	assert.Equal(t, "???", out[1].Title())
	assert.Equal(t, "just some words without structure", out[3].Title())
}

func TestParsePaste_Idempotent(t *testing.T) {
	in := "Smith, Alice, and Bob Lee. A Study of Widgets. Widget Press, 2020.\n\n\"Gadgets\" by Carol King\n"
	first := parse(t, in)
	second := parse(t, in)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Record(), second[i].Record())
	}
}

func TestParsePaste_EmptyInput(t *testing.T) {
	out, err := ParsePaste(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = ParsePaste(strings.NewReader("\n  \n\t\n"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParsePaste_BylineOnly(t *testing.T) {
	out := parse(t, "Alice Smith, Bob Lee\n")
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].Title())
	assert.Equal(t, []string{"Alice Smith", "Bob Lee"}, out[0].Authors())
}

func TestParsePaste_AuthorOrderPreserved(t *testing.T) {
	out := parse(t, "Zed Young, Amy Able and Mia Middle\n\"Order Matters\"\n")
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Zed Young", "Amy Able", "Mia Middle"}, out[0].Authors())
}

func TestParsePaste_Layouts(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		title   string
		authors []string
	}{
		{
			name:    "author-date",
			in:      "Smith, A., & Lee, B. (2020). A study of widgets. Journal of Widgets, 3(2), 1-10.",
			title:   "A study of widgets",
			authors: []string{"Smith, A.", "Lee, B."},
		},
		{
			name:    "quoted title after inverted byline",
			in:      `Smith, Alice, and Bob Lee. "A Study of Widgets." Journal of Widgets 3 (2020): 1-10.`,
			title:   "A Study of Widgets",
			authors: []string{"Smith, Alice", "Bob Lee"},
		},
		{
			name:    "sentences",
			in:      "Smith, Alice, and Bob Lee. A Study of Widgets. Widget Press, 2020.",
			title:   "A Study of Widgets",
			authors: []string{"Smith, Alice", "Bob Lee"},
		},
		{
			name:    "quoted title then by",
			in:      `"Gadgets Revisited" by Carol King and Dan Wu, Journal of Gadgets, 2021`,
			title:   "Gadgets Revisited",
			authors: []string{"Carol King", "Dan Wu"},
		},
		{
			name:    "curly quotes",
			in:      "Carol King. “Gadgets Revisited.” Gadget Quarterly.",
			title:   "Gadgets Revisited",
			authors: []string{"Carol King"},
		},
		{
			name:    "title line then byline line",
			in:      "A Study of Widgets\nAlice Smith and Bob Lee\nWidget Press",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:    "byline line then title line",
			in:      "Alice Smith, Bob Lee\nA Study of Widgets\nWidget Press",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:    "markdown emphasis",
			in:      "Alice Smith. *A Study of Widgets*. Widget Press.",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith"},
		},
		{
			name:    "numbered list marker",
			in:      "[3] Alice Smith, Bob Lee. \"A Study of Widgets.\"",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:  "title only",
			in:    "A Study of Widgets",
			title: "A Study of Widgets",
		},
		{
			name:    "byline wrapped over two lines",
			in:      "Alice Smith,\nBob Lee",
			title:   "",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:    "byline wrapped before and",
			in:      "Alice Smith, Bob Lee\nand Carol King",
			title:   "",
			authors: []string{"Alice Smith", "Bob Lee", "Carol King"},
		},
		{
			name:    "wrapped byline then title",
			in:      "Alice Smith, Bob Lee,\nCarol King\nA Study of Widgets",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee", "Carol King"},
		},
		{
			name:    "trailing by",
			in:      "A Study of Widgets by Alice Smith",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith"},
		},
		{
			name:    "comma by with two authors",
			in:      "A Study of Widgets, by Alice Smith and Bob Lee",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:    "byline before colon",
			in:      "Alice Smith & Bob Lee: A Study of Widgets",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith", "Bob Lee"},
		},
		{
			name:    "trailing by on first line",
			in:      "A Study of Widgets by Alice Smith\nWidget Press",
			title:   "A Study of Widgets",
			authors: []string{"Alice Smith"},
		},
		{
			name:  "by inside a title",
			in:    "Stand by Me",
			title: "Stand by Me",
		},
		{
			name:  "subtitle colon",
			in:    "Deep Learning: A Primer",
			title: "Deep Learning: A Primer",
		},
		{
			name:    "hyphenated wrap",
			in:      "Smith, A. (2019). Wid-\ngets and gizmos. Press.",
			title:   "Widgets and gizmos",
			authors: []string{"Smith, A."},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := parse(t, c.in)
			require.Len(t, out, 1)
			assert.Equal(t, c.title, out[0].Title())
			assert.Equal(t, c.authors, out[0].Authors())
		})
	}
}

func TestParsePaste_Enrichment(t *testing.T) {
	in := "Smith, A., & Lee, B. (2020). A study of widgets. Journal of Widgets, 3(2), 1-10. https://doi.org/10.1000/xyz.123."
	out := parse(t, in)
	require.Len(t, out, 1)
	assert.Equal(t, 2020, out[0].Year())
	assert.Equal(t, "10.1000/xyz.123", out[0].DOI())
	assert.Equal(t, "https://doi.org/10.1000/xyz.123", out[0].URL())
}

func TestParsePaste_YearIgnoresIdentifiers(t *testing.T) {
	out := parse(t, "Carol King. \"Gadgets.\" https://example.org/2030/1999-report")
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Year())
	assert.Equal(t, "https://example.org/2030/1999-report", out[0].URL())
}

func TestParsePaste_CRLF(t *testing.T) {
	out := parse(t, "Alice Smith, Bob Lee\r\n\"A Study of Widgets\"\r\n\r\nCarol King\r\n\"Gadgets\"\r\n")
	require.Len(t, out, 2)
	assert.Equal(t, "A Study of Widgets", out[0].Title())
	assert.Equal(t, []string{"Carol King"}, out[1].Authors())
}

func TestParsePaste_SplitLines(t *testing.T) {
	in := "Alice Smith. \"Widgets.\"\nBob Lee. \"Gadgets.\"\n\nCarol King. \"Gizmos.\"\n"
	out := parse(t, in, WithSplitLines(true))
	require.Len(t, out, 3)
	assert.Equal(t, "Widgets", out[0].Title())
	assert.Equal(t, "Gadgets", out[1].Title())
	assert.Equal(t, "Gizmos", out[2].Title())

	assert.Len(t, parse(t, in), 2)
}

func TestParsePaste_StrategyOption(t *testing.T) {
	s, ok := Lookup("title-first")
	require.True(t, ok)
	out := parse(t, "Deep Learning\nIan Goodfellow, Yoshua Bengio\n", WithStrategy(s))
	require.Len(t, out, 1)
	assert.Equal(t, "Deep Learning", out[0].Title())
	assert.Equal(t, []string{"Ian Goodfellow", "Yoshua Bengio"}, out[0].Authors())

	s, _ = Lookup("byline-first")
	out = parse(t, "Ian Goodfellow\nDeep Learning\n", WithStrategy(s))
	assert.Equal(t, "Deep Learning", out[0].Title())
	assert.Equal(t, []string{"Ian Goodfellow"}, out[0].Authors())
}

func TestParsePaste_CustomStrategy(t *testing.T) {
	upper := StrategyFunc{ID: "upper", Fn: func(b Block) (Fields, bool) {
		return Fields{Title: strings.ToUpper(b.Text())}, true
	}}
	out := parse(t, "widgets\n\ngadgets\n", WithStrategy(upper))
	require.Len(t, out, 2)
	assert.Equal(t, "WIDGETS", out[0].Title())
	assert.Equal(t, "GADGETS", out[1].Title())
}

func TestParsePaste_UnmatchedStrategyStillEmits(t *testing.T) {
	out := parse(t, "only one line\n\nanother\n", WithStrategy(Lines))
	require.Len(t, out, 2)
	assert.True(t, out[0].Empty())
}

var errBoom = errors.New("boom")

func TestParsePaste_ReadFault(t *testing.T) {
	r := io.MultiReader(strings.NewReader("Alice Smith\n\"Widgets\"\n\nBob Lee\n"), iotest.ErrReader(errBoom))
	out, err := ParsePaste(r)
	require.Error(t, err)
	assert.Nil(t, out)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 4, se.Line)
}

func TestParsePaste_VeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 5<<20)
	out, err := ParsePaste(strings.NewReader("\"" + long + "\" by Alice Smith\n\nOn Gadgets\nCarol King\n"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	// titles are capped, not rejected
	assert.Equal(t, long[:1024], out[0].Title())
	assert.Equal(t, []string{"Alice Smith"}, out[0].Authors())
	assert.Equal(t, "On Gadgets", out[1].Title())
}

func TestParsePaste_LastLineWithoutNewline(t *testing.T) {
	out, err := ParsePaste(strings.NewReader("On Gadgets\r\nCarol King"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "On Gadgets", out[0].Title())
	assert.Equal(t, []string{"Carol King"}, out[0].Authors())
}

func TestCitations_LazyYieldsBeforeFault(t *testing.T) {
	r := io.MultiReader(strings.NewReader("Alice Smith\n\"Widgets\"\n\n"), iotest.ErrReader(errBoom))
	var titles []string
	var gotErr error
	for c, err := range Citations(r) {
		if err != nil {
			gotErr = err
			continue
		}
		titles = append(titles, c.Title())
	}
	assert.Equal(t, []string{"Widgets"}, titles)
	assert.ErrorIs(t, gotErr, errBoom)
}

func TestCitations_EarlyStop(t *testing.T) {
	n := 0
	for range Citations(strings.NewReader("a\n\nb\n\nc\n")) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

type trackingCloser struct {
	io.Reader
	closed   int
	closeErr error
}

func (c *trackingCloser) Close() error {
	c.closed++
	return c.closeErr
}

func TestStream_ClosesWhenExhausted(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("a\n\nb\n")}
	n := 0
	for _, err := range Stream(rc) {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, rc.closed)
}

func TestStream_ClosesOnEarlyStop(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("a\n\nb\n\nc\n")}
	for range Stream(rc) {
		break
	}
	assert.Equal(t, 1, rc.closed)
}

func TestStream_ClosesOnFault(t *testing.T) {
	rc := &trackingCloser{Reader: iotest.ErrReader(errBoom)}
	var gotErr error
	for _, err := range Stream(rc) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, errBoom)
	assert.Equal(t, 1, rc.closed)
}

func TestStream_ReportsCloseError(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("a\n"), closeErr: errBoom}
	var errs []error
	for _, err := range Stream(rc) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errBoom)
}

func TestParsePaste_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	parse(t, "Alice Smith, Bob Lee\n\"A Study of Widgets\"\n", WithLogger(logger))
	assert.Contains(t, buf.String(), "parsed block")
	assert.Contains(t, buf.String(), "rule=quoted")
}

func TestParsePaste_LogsUnrecognisedBlock(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	out := parse(t, "only one line\n\nOn Gadgets\nCarol King\n", WithStrategy(Lines), WithLogger(logger))
	require.Len(t, out, 2)
	assert.True(t, out[0].Empty())
	assert.Equal(t, 1, strings.Count(buf.String(), "block not recognised"))
	assert.Contains(t, buf.String(), `msg="block not recognised" block=0 line=1`)
}
