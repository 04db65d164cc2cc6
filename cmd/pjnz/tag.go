package main

import (
	"io"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/parser"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var (
		cellType string
		columns  []string
	)

	cmd := &cobra.Command{
		Use:   "tag [archive.PJNZ] [tag]",
		Short: "Preview the sub-table under a tag of the DP sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parser.ParseCellType(cellType)
			if err != nil {
				return err
			}

			opts := cfg.FileOptions()
			opts.Logger = logger
			f, err := pjnz.Open(args[0], opts)
			if err != nil {
				return err
			}
			defer f.Close()

			t, err := f.DP(args[1], typ, columns)
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVar(&cellType, "type", "float", "Cell type: str, int, float, auto")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Column labels (default: the configured years)")

	return cmd
}

func renderTable(w io.Writer, t *models.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	// Column labels are data; show them as extracted.
	tw.Style().Format.Header = text.FormatDefault
	if t.Name != "" {
		tw.SetTitle(t.Name)
	}

	header := table.Row{""}
	for _, c := range t.Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for i, row := range t.Rows {
		r := table.Row{models.FormatValue(t.Index[i])}
		for _, v := range row {
			r = append(r, models.FormatValue(v))
		}
		tw.AppendRow(r)
	}
	tw.Render()
}
