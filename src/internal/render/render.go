package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"kcci/src/internal/schema"
)

// Format names an output rendering.
type Format string

const (
	TSV    Format = "tsv"
	JSON   Format = "json"
	JSONL  Format = "jsonl"
	YAML   Format = "yaml"
	TOML   Format = "toml"
	BibTeX Format = "bibtex"
	APA    Format = "apa"
	Table  Format = "table"
)

// ErrUnknownFormat is returned for a format name with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

type writerFunc func(w io.Writer, cs []schema.Citation) error

var writers = map[Format]writerFunc{
	TSV:    writeTSV,
	JSON:   writeJSON,
	JSONL:  writeJSONL,
	YAML:   writeYAML,
	TOML:   writeTOML,
	BibTeX: writeBibTeX,
	APA:    writeAPA,
	Table:  writeTable,
}

// Formats lists the supported format names in a stable order.
func Formats() []string {
	return []string{string(TSV), string(JSON), string(JSONL), string(YAML), string(TOML), string(BibTeX), string(APA), string(Table)}
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := writers[f]; !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Write renders cs to w in the given format.
func Write(w io.Writer, f Format, cs []schema.Citation) error {
	fn, ok := writers[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return fn(w, cs)
}

func records(cs []schema.Citation) []schema.Record {
	out := make([]schema.Record, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Record())
	}
	return out
}
