// Package report renders an HTML summary of a pipeline run, grounded
// on output.PlotHeatmap's go-echarts charts/components/opts/types
// pattern (NewBar, SetGlobalOptions, components.NewPage, page.Render).
package report

import (
	"fmt"
	"os"

	"github.com/babilon/dedup-domains/pipeline"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Render writes an HTML bar chart to path, one bar group per input
// file, showing survivors, dominated, and carried-over counts.
func Render(result pipeline.Result, path string) error {
	names := make([]string, len(result.Files))
	survivors := make([]opts.BarData, len(result.Files))
	dominated := make([]opts.BarData, len(result.Files))
	carried := make([]opts.BarData, len(result.Files))

	for i, fr := range result.Files {
		names[i] = fr.InputPath
		survivors[i] = opts.BarData{Value: fr.Survivors}
		dominated[i] = opts.BarData{Value: fr.Dominated}
		carried[i] = opts.BarData{Value: fr.CarriedOver}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "dedup-domains report",
			Width:           "180vh",
			Height:          "100vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Per-file survivors, dominated, carried-over",
			Left:  "center",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Data: names}),
	)
	bar.AddSeries("survivors", survivors)
	bar.AddSeries("dominated", dominated)
	bar.AddSeries("carried over", carried)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(bar)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	return nil
}
