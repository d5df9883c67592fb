package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/crashpair/internal/analysis"
	"github.com/KaramelBytes/crashpair/internal/dataset"
)

func twoCar(f1, f2 string, injured, killed int) dataset.Record {
	r := dataset.Record{
		Factor1: dataset.Present(f1),
		Factor2: dataset.Present(f2),
		Injured: dataset.Known(injured),
		Killed:  dataset.Known(killed),
	}
	r.VehicleTypes[0] = dataset.Present("Sedan")
	r.VehicleTypes[1] = dataset.Present("Bus")
	return r
}

func sample() *analysis.Result {
	return analysis.Run([]dataset.Record{
		twoCar("Unspecified", "Unspecified", 0, 0),
		twoCar("Unspecified", "Unspecified", 2, 0),
		twoCar("Unspecified", "Unspecified", 0, 0),
		twoCar("Unsafe Speed", "Unspecified", 1, 0),
		twoCar("Unsafe Speed", "Unspecified", 0, 1),
		twoCar("Following Too Closely", "Unspecified", 0, 0),
	}, analysis.DefaultOptions())
}

func TestBuild(t *testing.T) {
	specs := Build(sample())
	require.Len(t, specs, 3)

	box, bar, pairs := specs[0], specs[1], specs[2]

	assert.Equal(t, KindBox, box.Kind)
	assert.Equal(t, []string{"Non-Matching", "Matching"}, box.Categories)
	if diff := cmp.Diff([][]float64{{1, 1, 0}, {0, 2, 0}}, box.Samples); diff != "" {
		t.Fatalf("box samples (-want +got):\n%s", diff)
	}

	assert.Equal(t, KindBar, bar.Kind)
	assert.Equal(t, "%", bar.ValueSuffix)
	assert.Equal(t, []string{"Non-Matching", "Matching"}, bar.Categories)
	require.Len(t, bar.Values, 2)
	assert.InDelta(t, 100.0/3.0, bar.Values[0], 1e-9)
	assert.InDelta(t, 100.0/3.0, bar.Values[1], 1e-9)

	assert.Equal(t, KindHorizontalBar, pairs.Kind)
	assert.Equal(t, "Number of Collisions", pairs.XLabel)
	assert.Equal(t, "Top 3 Factor Pairs in Two-Vehicle Collisions", pairs.Title)
	assert.Equal(t, "Unspecified || Unspecified", pairs.Categories[0], "highest count listed first")
	assert.Equal(t, []float64{3, 2, 1}, pairs.Values)
}

func TestBuildEmpty(t *testing.T) {
	for _, s := range Build(analysis.Run(nil, analysis.DefaultOptions())) {
		assert.True(t, s.Empty(), s.Name)
	}
}

func TestPlotHorizontalBarPutsFirstCategoryOnTop(t *testing.T) {
	s := TopPairsBar([]analysis.PairFrequency{
		{FactorPair: "A || A", Count: 9},
		{FactorPair: "B || B", Count: 4},
		{FactorPair: "C || C", Count: 1},
	})
	p, err := Plot(s)
	require.NoError(t, err)

	ticks := p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max)
	top := ticks[0]
	for _, tk := range ticks {
		if tk.Value > top.Value {
			top = tk
		}
	}
	assert.Equal(t, "A || A", top.Label)
}

func TestSuffixTicks(t *testing.T) {
	ticks := suffixTicks{suffix: "%"}.Ticks(0, 100)
	require.NotEmpty(t, ticks)
	labelled := 0
	for _, tk := range ticks {
		if tk.Label == "" {
			continue
		}
		labelled++
		assert.True(t, strings.HasSuffix(tk.Label, "%"), tk.Label)
	}
	assert.Positive(t, labelled)
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := SaveAll(Build(sample()), dir, "png")
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, NameSeverityBox+".png"),
		filepath.Join(dir, NameSevereBar+".png"),
		filepath.Join(dir, NameTopPairs+".png"),
	}
	assert.Equal(t, want, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), p)
	}
}

func TestSaveAllSkipsEmptyAndRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveAll(Build(analysis.Run(nil, analysis.DefaultOptions())), dir, ".SVG")
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = SaveAll(nil, dir, "bmp")
	assert.ErrorContains(t, err, "unsupported chart format")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Build(sample())))

	html := buf.String()
	assert.Contains(t, html, "Crash Severity by Matching vs. Non-Matching Factors")
	assert.Contains(t, html, "Percent Severe by Matching vs. Non-Matching Factors")
	assert.Contains(t, html, "Top 3 Factor Pairs in Two-Vehicle Collisions")
}

func TestSaveHTML(t *testing.T) {
	path, err := SaveHTML(Build(sample()), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, HTMLFile, filepath.Base(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "echarts")
}
