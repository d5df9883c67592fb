package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultTopPairs is the number of factor pairs kept by RankPairs in reports.
const DefaultTopPairs = 15

// Group labels used in reports and charts.
const (
	LabelNonMatching = "Non-Matching"
	LabelMatching    = "Matching"
)

// GroupLabel names the factors_match group.
func GroupLabel(match bool) string {
	if match {
		return LabelMatching
	}
	return LabelNonMatching
}

// GroupSummary aggregates the crashes sharing one factors_match value.
type GroupSummary struct {
	FactorsMatch bool    `json:"factors_match" yaml:"factors_match"`
	NCrashes     int     `json:"n_crashes" yaml:"n_crashes"`
	MeanSeverity float64 `json:"mean_severity" yaml:"mean_severity"`
	PctSevere    float64 `json:"pct_severe" yaml:"pct_severe"`
}

// Label returns the display name of the group.
func (g GroupSummary) Label() string { return GroupLabel(g.FactorsMatch) }

type groupAcc struct {
	n       int
	sumSev  float64
	nSevere int
}

// Summarize groups collisions by factors_match in one pass. Groups are ordered
// false then true; a group with no crashes is omitted.
func Summarize(cs []Collision) []GroupSummary {
	var acc [2]groupAcc
	for _, c := range cs {
		a := &acc[boolIndex(c.FactorsMatch)]
		a.n++
		a.sumSev += float64(c.SeverityCount)
		if c.Severe {
			a.nSevere++
		}
	}
	out := make([]GroupSummary, 0, 2)
	for i, a := range acc {
		if a.n == 0 {
			continue
		}
		out = append(out, GroupSummary{
			FactorsMatch: i == 1,
			NCrashes:     a.n,
			MeanSeverity: a.sumSev / float64(a.n),
			PctSevere:    float64(a.nSevere) / float64(a.n) * 100,
		})
	}
	return out
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

// PairFrequency is the number of crashes with a given factor pair.
type PairFrequency struct {
	FactorPair string `json:"factor_pair" yaml:"factor_pair"`
	Count      int    `json:"count" yaml:"count"`
}

// RankPairs counts factor pairs and returns the n most frequent, highest first.
// Ties keep first-seen order. n <= 0 returns every pair.
func RankPairs(cs []Collision, n int) []PairFrequency {
	pos := make(map[string]int)
	var out []PairFrequency
	for _, c := range cs {
		i, ok := pos[c.FactorPair]
		if !ok {
			i = len(out)
			pos[c.FactorPair] = i
			out = append(out, PairFrequency{FactorPair: c.FactorPair})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// BoxStats is a five-number summary with whiskers at 1.5 IQR, clipped to the data.
type BoxStats struct {
	Min      float64 `json:"min" yaml:"min"`
	Q1       float64 `json:"q1" yaml:"q1"`
	Median   float64 `json:"median" yaml:"median"`
	Q3       float64 `json:"q3" yaml:"q3"`
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Outliers int     `json:"outliers" yaml:"outliers"`
}

// Distribution holds the severity_count values of one factors_match group.
type Distribution struct {
	FactorsMatch bool      `json:"factors_match" yaml:"factors_match"`
	Box          BoxStats  `json:"box" yaml:"box"`
	Values       []float64 `json:"-" yaml:"-"`
}

// Label returns the display name of the group.
func (d Distribution) Label() string { return GroupLabel(d.FactorsMatch) }

// SeverityDistributions collects severity_count per group, ordered like Summarize.
func SeverityDistributions(cs []Collision) []Distribution {
	var vals [2][]float64
	for _, c := range cs {
		i := boolIndex(c.FactorsMatch)
		vals[i] = append(vals[i], float64(c.SeverityCount))
	}
	out := make([]Distribution, 0, 2)
	for i, v := range vals {
		if len(v) == 0 {
			continue
		}
		out = append(out, Distribution{FactorsMatch: i == 1, Box: Box(v), Values: v})
	}
	return out
}

// Box computes the box plot summary of values.
func Box(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	b := BoxStats{
		Q1:     quantile(s, 0.25),
		Median: quantile(s, 0.5),
		Q3:     quantile(s, 0.75),
		Mean:   stat.Mean(s, nil),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.Min, b.Max = floats.Max(s), floats.Min(s)
	for _, v := range s {
		if v < lo || v > hi {
			b.Outliers++
			continue
		}
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
