package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// palette follows the Set2 qualitative scheme.
var palette = []color.Color{
	color.RGBA{R: 0x66, G: 0xc2, B: 0xa5, A: 0xff},
	color.RGBA{R: 0xfc, G: 0x8d, B: 0x62, A: 0xff},
	color.RGBA{R: 0x8d, G: 0xa0, B: 0xcb, A: 0xff},
}

var skyBlue = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}

// ImageFormats lists the file extensions SaveImage understands.
var ImageFormats = []string{"png", "svg", "pdf", "jpg", "tif", "eps"}

// SaveAll writes every non-empty spec to dir as <name>.<format> and returns
// the written paths. Empty specs are skipped.
func SaveAll(specs []Spec, dir, format string) ([]string, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		format = "png"
	}
	if !validFormat(format) {
		return nil, fmt.Errorf("unsupported chart format %q (use one of %s)", format, strings.Join(ImageFormats, ", "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var paths []string
	for _, s := range specs {
		if s.Empty() {
			continue
		}
		path := filepath.Join(dir, s.Name+"."+format)
		if err := SaveImage(s, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func validFormat(f string) bool {
	for _, v := range ImageFormats {
		if v == f {
			return true
		}
	}
	return false
}

// SaveImage renders s to path. The image format follows the file extension.
func SaveImage(s Spec, path string) error {
	p, err := Plot(s)
	if err != nil {
		return err
	}
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 6
	}
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s chart: %w", s.Name, err)
	}
	return nil
}

// Plot builds the gonum plot for s without writing it anywhere.
func Plot(s Spec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	if s.Empty() {
		return p, nil
	}

	switch s.Kind {
	case KindBox:
		for i, vals := range s.Samples {
			if len(vals) == 0 {
				continue
			}
			b, err := plotter.NewBoxPlot(vg.Points(60), float64(i), plotter.Values(vals))
			if err != nil {
				return nil, fmt.Errorf("%s: box %q: %w", s.Name, s.Categories[i], err)
			}
			b.FillColor = palette[i%len(palette)]
			p.Add(b)
		}
		p.NominalX(s.Categories...)
	case KindBar:
		for i, v := range s.Values {
			bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(60))
			if err != nil {
				return nil, fmt.Errorf("%s: bar %q: %w", s.Name, s.Categories[i], err)
			}
			bar.XMin = float64(i)
			bar.Color = palette[i%len(palette)]
			bar.LineStyle.Width = 0
			p.Add(bar)
		}
		p.NominalX(s.Categories...)
		p.Y.Min = 0
		if s.ValueSuffix != "" {
			p.Y.Tick.Marker = suffixTicks{suffix: s.ValueSuffix}
		}
	case KindHorizontalBar:
		// nominal positions count up from the bottom, so the first category
		// goes to the highest position
		n := len(s.Categories)
		for i, v := range s.Values {
			bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(14))
			if err != nil {
				return nil, fmt.Errorf("%s: bar %q: %w", s.Name, s.Categories[i], err)
			}
			bar.Horizontal = true
			bar.XMin = float64(n - 1 - i)
			bar.Color = skyBlue
			bar.LineStyle.Width = 0
			p.Add(bar)
		}
		labels := make([]string, n)
		for i, c := range s.Categories {
			labels[n-1-i] = c
		}
		p.NominalY(labels...)
		p.X.Min = 0
		if s.ValueSuffix != "" {
			p.X.Tick.Marker = suffixTicks{suffix: s.ValueSuffix}
		}
	default:
		return nil, fmt.Errorf("%s: unknown chart kind %q", s.Name, s.Kind)
	}
	return p, nil
}

// suffixTicks labels the default ticks with a unit suffix.
type suffixTicks struct {
	suffix string
}

func (t suffixTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = fmt.Sprintf("%.4g%s", ticks[i].Value, t.suffix)
	}
	return ticks
}
