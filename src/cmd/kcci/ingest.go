package main

import (
	"github.com/spf13/cobra"

	"kcci/src/cmd/kcci/ingestcmd"
)

// newIngestCmd creates the "ingest" command that parses pasted citations.
func newIngestCmd() *cobra.Command { return ingestcmd.New() }
