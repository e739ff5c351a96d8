package schemacmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"kcci/src/internal/schema"
)

// SchemaID is the $id of the published citation record schema.
const SchemaID = "https://kcci.dev/schema/citation.json"

// New returns the schema command which prints the JSON Schema of the json output.
func New() *cobra.Command {
	var array bool
	cmd := &cobra.Command{
		Use:          "schema",
		Short:        "Print the JSON Schema of a citation record",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := json.MarshalIndent(Build(array), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().BoolVar(&array, "array", false, "Describe the whole --format json document (an array of records)")
	return cmd
}

// Build reflects schema.Record into a JSON Schema. With array set the result
// describes a list of records, as written by the json format.
func Build(array bool) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&schema.Record{})
	s.Title = "Citation"
	s.Description = "A citation extracted from pasted bibliographic text."
	if !array {
		s.ID = jsonschema.ID(SchemaID)
		return s
	}
	s.Version = ""
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		ID:      jsonschema.ID(SchemaID),
		Type:    "array",
		Items:   s,
	}
}
