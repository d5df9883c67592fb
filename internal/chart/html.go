package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/crashpair/internal/analysis"
)

// HTMLFile is the file name used by SaveHTML.
const HTMLFile = "charts.html"

// SaveHTML writes all specs to dir/charts.html and returns its path.
func SaveHTML(specs []Spec, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, HTMLFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", HTMLFile, err)
	}
	defer f.Close()
	if err := WriteHTML(f, specs); err != nil {
		return "", err
	}
	return path, f.Close()
}

// WriteHTML renders the non-empty specs into one interactive page.
func WriteHTML(w io.Writer, specs []Spec) error {
	page := components.NewPage()
	page.PageTitle = "Contributing factor match vs. crash severity"
	for _, s := range specs {
		if s.Empty() {
			continue
		}
		c, err := echart(s)
		if err != nil {
			return err
		}
		page.AddCharts(c)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html charts: %w", err)
	}
	return nil
}

func echart(s Spec) (components.Charter, error) {
	initOpts := opts.Initialization{
		PageTitle: s.Title,
		Width:     fmt.Sprintf("%dpx", int(s.Width*100)),
		Height:    fmt.Sprintf("%dpx", int(s.Height*100)),
	}
	title := opts.Title{Title: s.Title}

	switch s.Kind {
	case KindBox:
		bp := charts.NewBoxPlot()
		bp.SetGlobalOptions(
			charts.WithInitializationOpts(initOpts),
			charts.WithTitleOpts(title),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
			charts.WithYAxisOpts(opts.YAxis{Name: s.YLabel}),
		)
		items := make([]opts.BoxPlotData, 0, len(s.Samples))
		for i, vals := range s.Samples {
			b := analysis.Box(vals)
			items = append(items, opts.BoxPlotData{
				Name:  s.Categories[i],
				Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max},
			})
		}
		bp.SetXAxis(s.Categories).AddSeries(s.YLabel, items)
		return bp, nil

	case KindBar:
		bar := charts.NewBar()
		yAxis := opts.YAxis{Name: s.YLabel}
		if s.ValueSuffix == "%" {
			yAxis.AxisLabel = &opts.AxisLabel{Formatter: "{value}%"}
		}
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(initOpts),
			charts.WithTitleOpts(title),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
			charts.WithYAxisOpts(yAxis),
		)
		bar.SetXAxis(s.Categories).AddSeries(s.YLabel, barData(s.Values))
		return bar, nil

	case KindHorizontalBar:
		// category axes grow upwards once reversed, so feed them bottom first
		n := len(s.Categories)
		cats := make([]string, n)
		vals := make([]float64, n)
		for i := range s.Categories {
			cats[n-1-i] = s.Categories[i]
			vals[n-1-i] = s.Values[i]
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(initOpts),
			charts.WithTitleOpts(title),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
			charts.WithGridOpts(opts.Grid{Left: "30%"}),
		)
		bar.SetXAxis(cats).AddSeries(s.XLabel, barData(vals))
		bar.XYReversal()
		return bar, nil
	}
	return nil, fmt.Errorf("%s: unknown chart kind %q", s.Name, s.Kind)
}

func barData(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}
