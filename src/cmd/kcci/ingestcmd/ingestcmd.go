package ingestcmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"kcci/src/internal/config"
	"kcci/src/internal/ingest"
	"kcci/src/internal/logging"
	"kcci/src/internal/render"
	"kcci/src/internal/schema"
	"kcci/src/internal/stringsx"
)

// readClipboard is swapped out in tests.
var readClipboard = clipboard.ReadAll

// New returns the ingest command which parses pasted citations from stdin,
// files or the clipboard and prints them in the chosen format.
func New() *cobra.Command {
	var format, strategy string
	var splitLines, fromClipboard bool
	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Parse pasted citations into titles and authors",
		Long: `Parse pasted bibliographic text into citation records.

Blocks of text separated by blank lines are one citation each. Input is read
from stdin, from each named file in order ("-" is stdin), or from the system
clipboard with --clipboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				cfg = &config.Config{}
			}
			log := logging.FromContext(cmd.Context())

			f, err := render.ParseFormat(stringsx.FirstNonEmpty(format, cfg.Format, string(render.TSV)))
			if err != nil {
				return err
			}
			name := stringsx.FirstNonEmpty(strategy, cfg.Strategy, ingest.DefaultStrategy)
			s, ok := ingest.Lookup(name)
			if !ok {
				return fmt.Errorf("%w: %q (want one of %s)", config.ErrUnknownStrategy, name, strings.Join(ingest.Names(), ", "))
			}
			if !cmd.Flags().Changed("split-lines") {
				splitLines = cfg.SplitLines
			}
			opts := []ingest.Option{ingest.WithStrategy(s), ingest.WithSplitLines(splitLines), ingest.WithLogger(log)}

			var all []schema.Citation
			switch {
			case fromClipboard:
				if len(args) > 0 {
					return fmt.Errorf("--clipboard does not take file arguments")
				}
				text, err := readClipboard()
				if err != nil {
					return fmt.Errorf("reading clipboard: %w", err)
				}
				if all, err = ingest.ParsePaste(strings.NewReader(text), opts...); err != nil {
					return err
				}
			case len(args) == 0:
				if all, err = ingest.ParsePaste(cmd.InOrStdin(), opts...); err != nil {
					return err
				}
			default:
				for _, a := range args {
					cs, err := parseArg(cmd.InOrStdin(), a, opts)
					if err != nil {
						return err
					}
					all = append(all, cs...)
				}
			}
			unrecognised := 0
			for _, c := range all {
				if c.Empty() {
					unrecognised++
				}
			}
			log.Info("parsed paste", slog.Int("citations", len(all)), slog.Int("unrecognised", unrecognised), slog.String("strategy", s.Name()))
			return render.Write(cmd.OutOrStdout(), f, all)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+strings.Join(render.Formats(), ", "))
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Segmentation strategy (see 'kcci strategies')")
	cmd.Flags().BoolVar(&splitLines, "split-lines", false, "Treat every non-blank line as its own citation")
	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Read the paste from the system clipboard")
	return cmd
}

// parseArg parses one named input; "-" is stdin.
func parseArg(stdin io.Reader, arg string, opts []ingest.Option) ([]schema.Citation, error) {
	if arg == "-" {
		return ingest.ParsePaste(stdin, opts...)
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, err
	}
	var out []schema.Citation
	for c, err := range ingest.Stream(f, opts...) {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		out = append(out, c)
	}
	return out, nil
}
