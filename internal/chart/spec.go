// Package chart turns analysis results into declarative chart specs and
// renders them as image files or an interactive HTML page.
package chart

import (
	"fmt"

	"github.com/KaramelBytes/crashpair/internal/analysis"
)

// Kind selects how a Spec is drawn.
type Kind string

const (
	KindBox           Kind = "box"
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "hbar"
)

// File stems for the three standard charts.
const (
	NameSeverityBox = "severity_boxplot"
	NameSevereBar   = "pct_severe_bar"
	NameTopPairs    = "top_factor_pairs"
)

// Spec describes a chart independently of any renderer.
type Spec struct {
	Name   string
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	// Categories in display order: left to right, or top to bottom for
	// horizontal bars.
	Categories []string
	// Values holds one bar length per category (bar kinds).
	Values []float64
	// Samples holds the raw observations per category (box kind).
	Samples [][]float64
	// ValueSuffix is appended to value axis tick labels, e.g. "%".
	ValueSuffix string
	// Width and Height are the preferred size in inches.
	Width, Height float64
}

// Empty reports whether the spec has nothing to draw.
func (s Spec) Empty() bool { return len(s.Categories) == 0 }

// Build returns the box plot, percent-severe bar and top pairs charts for r.
func Build(r *analysis.Result) []Spec {
	return []Spec{
		SeverityBoxPlot(r.Distributions),
		PercentSevereBar(r.Groups),
		TopPairsBar(r.TopPairs),
	}
}

// SeverityBoxPlot shows severity_count per factors_match group.
func SeverityBoxPlot(ds []analysis.Distribution) Spec {
	s := Spec{
		Name:   NameSeverityBox,
		Kind:   KindBox,
		Title:  "Crash Severity by Matching vs. Non-Matching Factors",
		XLabel: "factors_match",
		YLabel: "Total Persons Injured + Killed",
		Width:  7,
		Height: 5,
	}
	for _, d := range ds {
		s.Categories = append(s.Categories, d.Label())
		s.Samples = append(s.Samples, d.Values)
	}
	return s
}

// PercentSevereBar shows the share of severe crashes per factors_match group.
func PercentSevereBar(gs []analysis.GroupSummary) Spec {
	s := Spec{
		Name:        NameSevereBar,
		Kind:        KindBar,
		Title:       "Percent Severe by Matching vs. Non-Matching Factors",
		XLabel:      "factors_match",
		YLabel:      "% Severe Crashes",
		ValueSuffix: "%",
		Width:       6,
		Height:      4,
	}
	for _, g := range gs {
		s.Categories = append(s.Categories, g.Label())
		s.Values = append(s.Values, g.PctSevere)
	}
	return s
}

// TopPairsBar shows factor pair frequencies with the most frequent pair on top.
func TopPairsBar(ps []analysis.PairFrequency) Spec {
	s := Spec{
		Name:   NameTopPairs,
		Kind:   KindHorizontalBar,
		Title:  fmt.Sprintf("Top %d Factor Pairs in Two-Vehicle Collisions", len(ps)),
		XLabel: "Number of Collisions",
		Width:  8,
		Height: 6,
	}
	for _, p := range ps {
		s.Categories = append(s.Categories, p.FactorPair)
		s.Values = append(s.Values, float64(p.Count))
	}
	return s
}
