package main

import (
	"github.com/spf13/cobra"

	"kcci/src/cmd/kcci/schemacmd"
)

func newSchemaCmd() *cobra.Command { return schemacmd.New() }
