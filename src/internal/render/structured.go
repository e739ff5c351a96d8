package render

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"kcci/src/internal/schema"
)

func writeJSON(w io.Writer, cs []schema.Citation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records(cs))
}

func writeJSONL(w io.Writer, cs []schema.Citation) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records(cs) {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, cs []schema.Citation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(cs)); err != nil {
		return err
	}
	return enc.Close()
}

// tomlDocument wraps the records so they encode as a [[citation]] array of tables.
type tomlDocument struct {
	Citation []schema.Record `toml:"citation"`
}

func writeTOML(w io.Writer, cs []schema.Citation) error {
	return toml.NewEncoder(w).Encode(tomlDocument{Citation: records(cs)})
}
