package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page with a bar chart of fragment bytes and
// ops
func RenderChart(w io.Writer, title string, stats []FragmentStat) error {
	names := make([]string, 0, len(stats))
	sizes := make([]opts.BarData, 0, len(stats))
	ops := make([]opts.BarData, 0, len(stats))
	for _, f := range stats {
		names = append(names, f.Name)
		sizes = append(sizes, opts.BarData{Value: f.Stats.Size})
		ops = append(ops, opts.BarData{Value: f.Stats.Ops})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "static cost per fragment",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "fragment",
			AxisLabel: &opts.AxisLabel{Rotate: 30},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}),
	)
	bar.SetXAxis(names).
		AddSeries("bytes", sizes).
		AddSeries("ops", ops)

	page := components.NewPage().SetPageTitle(title)
	page.AddCharts(bar)
	return page.Render(w)
}
