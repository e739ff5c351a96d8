package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"kcci/src/internal/schema"
	"kcci/src/internal/stringsx"
)

const (
	titleWidth   = 60
	authorsWidth = 48
)

func writeTable(w io.Writer, cs []schema.Citation) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.AppendHeader(table.Row{"#", "Title", "Authors", "Year"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titleWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 3, WidthMax: authorsWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 4, Align: text.AlignRight},
	})
	for i, c := range cs {
		year := ""
		if c.Year() > 0 {
			year = fmt.Sprintf("%d", c.Year())
		}
		t.AppendRow(table.Row{
			i + 1,
			stringsx.Truncate(c.Title(), 4*titleWidth),
			strings.Join(c.Authors(), ", "),
			year,
		})
	}
	t.Render()
	return nil
}
