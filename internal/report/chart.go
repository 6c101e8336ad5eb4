package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// MonthlyCommits folds heatmap days into per-month totals ("2024-01"),
// in the heatmap's order.
func MonthlyCommits(heatmap domain.Heatmap) (months []string, totals []int) {
	for _, entry := range heatmap.Data {
		if len(entry.Date) < 7 {
			continue
		}
		month := entry.Date[:7]
		if len(months) == 0 || months[len(months)-1] != month {
			months = append(months, month)
			totals = append(totals, 0)
		}
		totals[len(totals)-1] += entry.Count
	}
	return months, totals
}

// RenderChart writes an HTML line chart of monthly commits.
func RenderChart(w io.Writer, heatmap domain.Heatmap) error {
	months, totals := MonthlyCommits(heatmap)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Commit activity",
			BackgroundColor: "transparent",
		}),
	)

	data := make([]opts.LineData, 0, len(totals))
	for i, total := range totals {
		data = append(data, opts.LineData{Name: months[i], Value: total, Symbol: "none"})
	}

	line.SetXAxis(months).
		AddSeries("Commits", data).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 1}),
		)
	return line.Render(w)
}
