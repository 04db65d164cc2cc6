package main

import (
	"fmt"
	"strings"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz/spectrum"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newIndicatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "List the indicators that can be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.Style().Format.Header = text.FormatDefault
			tw.AppendHeader(table.Row{"Name", "Schema", "Layout", "Tags", "Steps", "Description"})
			for _, name := range registry.Names() {
				ind, _ := registry.Get(name)
				tw.AppendRow(table.Row{
					ind.Name,
					ind.Schema,
					layoutSummary(ind),
					len(ind.Directives),
					stepSummary(ind.Steps),
					ind.Description,
				})
			}
			tw.Render()
			return nil
		},
	}
}

func layoutSummary(ind *spectrum.Indicator) string {
	if ind.Merge != "" {
		return "merge " + ind.Merge
	}
	orient := ind.Layout.Orient
	if orient == "" {
		orient = spectrum.OrientColumns
	}
	return string(orient)
}

func stepSummary(steps []spectrum.Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = string(s.Kind)
		if len(s.By) > 0 {
			parts[i] += fmt.Sprintf("(%s)", strings.Join(s.By, ", "))
		}
	}
	return strings.Join(parts, ", ")
}
