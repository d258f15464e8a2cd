package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tasignals/internal/indicators"
	"tasignals/internal/snapshot"
)

type tableView struct {
	registry *indicators.Registry
	category indicators.Category
	showAll  bool
}

func (v tableView) render(w io.Writer, r snapshot.BatchResult) {
	snap := r.Snapshot

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s  %s  (%s candles, last %s)",
		snap.Symbol,
		formatNumber(snap.Price),
		humanize.Comma(int64(snap.Candles)),
		humanize.Time(time.UnixMilli(snap.Timestamp)),
	)
	t.AppendHeader(table.Row{"Category", "Indicator", "Value", "Signal", "Details"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, WidthMax: 70},
	})

	var current indicators.Category
	for _, def := range v.registry.List() {
		if v.category != "" && def.Category != v.category {
			continue
		}
		res, ok := snap.Indicator(def.Name)
		if !ok || (res.Absent() && !v.showAll) {
			continue
		}
		if current != "" && def.Category != current {
			t.AppendSeparator()
		}
		current = def.Category

		if res.Absent() {
			t.AppendRow(table.Row{def.Category, def.Name, "-", "", res.Err.Error()})
			continue
		}
		t.AppendRow(table.Row{def.Category, def.Name, formatNumber(res.Value), res.Signal, details(res)})
	}

	s := snap.Summary
	t.AppendFooter(table.Row{
		"summary",
		fmt.Sprintf("%s / %s", s.Direction, s.Strength),
		fmt.Sprintf("%.0f%%", s.Confidence*100),
		fmt.Sprintf("%d bull  %d bear  %d total", s.Bullish, s.Bearish, s.Total),
		fmt.Sprintf("change %+.2f%%  last %+.2f%%  volume %+.1f%%", snap.PriceChangePct, snap.LastChangePct, snap.VolumeChangePct),
	})
	t.Render()

	d := r.Diagnostics
	fmt.Fprintf(w, "computed %d, adaptive %d, unavailable %d, failed %d in %s (run %s)\n\n",
		d.Computed, len(d.Degraded), len(d.Unavailable), len(d.Failures), d.Duration.Round(time.Microsecond), d.RunID)
}

// details renders labels then fields as key=value pairs
func details(r indicators.Result) string {
	parts := make([]string, 0, len(r.Labels)+len(r.Fields))
	labels := make([]string, 0, len(r.Labels))
	for k := range r.Labels {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, k := range labels {
		parts = append(parts, k+"="+r.Labels[k])
	}
	for _, k := range r.FieldNames() {
		parts = append(parts, k+"="+formatNumber(r.Fields[k]))
	}
	return strings.Join(parts, " ")
}

func formatNumber(v float64) string {
	switch abs := max(v, -v); {
	case abs >= 1000:
		return humanize.CommafWithDigits(v, 2)
	case abs >= 1:
		return humanize.FtoaWithDigits(v, 4)
	default:
		return humanize.FtoaWithDigits(v, 6)
	}
}
