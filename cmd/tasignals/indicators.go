package main

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"tasignals/internal/indicators"
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List registered indicators with their default parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		reg := indicators.Default()

		defs := reg.List()
		if category != "" {
			defs = reg.ByCategory(indicators.Category(category))
		}
		disabled := cfg.Engine.Disabled()

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Name", "Category", "Core", "Defaults", "Description"})
		for _, def := range defs {
			name := def.Name
			if disabled[name] {
				name += " (disabled)"
			}
			core := ""
			if def.Core {
				core = "yes"
			}
			t.AppendRow(table.Row{name, def.Category, core, formatParams(def.Defaults), def.Description})
		}
		t.AppendFooter(table.Row{"", "", "", "total", len(defs)})
		t.Render()
		return nil
	},
}

func init() {
	indicatorsCmd.Flags().String("category", "", "only list this category")
}

func formatParams(p indicators.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + formatNumber(p[k])
	}
	return strings.Join(parts, " ")
}
