// Package analysis compares the severity of two-vehicle collisions whose
// drivers share a contributing factor against those whose factors differ.
package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/crashpair/internal/dataset"
)

// Options controls the analysis pipeline.
type Options struct {
	// TopPairs limits the factor pair ranking; 0 keeps every pair.
	TopPairs int
	// PairSeparator joins the two factors of a pair. Empty means " || ".
	PairSeparator string
}

// DefaultOptions returns the settings used by the published analysis.
func DefaultOptions() Options {
	return Options{TopPairs: DefaultTopPairs, PairSeparator: PairSeparator}
}

// DateRange spans the crash dates of the analyzed subset.
type DateRange struct {
	First time.Time `json:"first" yaml:"first"`
	Last  time.Time `json:"last" yaml:"last"`
}

// Result is the outcome of one analysis run.
type Result struct {
	RunID         string          `json:"run_id" yaml:"run_id"`
	Source        string          `json:"source,omitempty" yaml:"source,omitempty"`
	Rows          int             `json:"rows" yaml:"rows"`
	TwoVehicle    int             `json:"two_vehicle_rows" yaml:"two_vehicle_rows"`
	Dates         *DateRange      `json:"dates,omitempty" yaml:"dates,omitempty"`
	Groups        []GroupSummary  `json:"groups" yaml:"groups"`
	TopPairs      []PairFrequency `json:"top_pairs" yaml:"top_pairs"`
	Distributions []Distribution  `json:"distributions" yaml:"distributions"`
	Warnings      []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	collisions []Collision
}

// Collisions returns the derived two-vehicle table behind the result.
func (r *Result) Collisions() []Collision { return r.collisions }

// Group returns the summary for the given factors_match value, if present.
func (r *Result) Group(match bool) (GroupSummary, bool) {
	for _, g := range r.Groups {
		if g.FactorsMatch == match {
			return g, true
		}
	}
	return GroupSummary{}, false
}

// SevereDelta is the matching minus non-matching percent severe. ok is false
// unless both groups are present.
func (r *Result) SevereDelta() (delta float64, ok bool) {
	m, okM := r.Group(true)
	n, okN := r.Group(false)
	if !okM || !okN {
		return 0, false
	}
	return m.PctSevere - n.PctSevere, true
}

// Run executes normalize, filter, derive and aggregate in order. Each stage
// works on a fresh slice; records is left untouched.
func Run(records []dataset.Record, opt Options) *Result {
	normalized := Normalize(records)
	subset := SelectTwoVehicle(normalized)
	cs := Derive(subset, opt.PairSeparator)

	return &Result{
		RunID:         uuid.NewString(),
		Rows:          len(records),
		TwoVehicle:    len(cs),
		Dates:         dateRange(cs),
		Groups:        Summarize(cs),
		TopPairs:      RankPairs(cs, opt.TopPairs),
		Distributions: SeverityDistributions(cs),
		collisions:    cs,
	}
}

func dateRange(cs []Collision) *DateRange {
	var dr *DateRange
	for _, c := range cs {
		if !c.HasDate() {
			continue
		}
		if dr == nil {
			dr = &DateRange{First: c.CrashDate, Last: c.CrashDate}
			continue
		}
		if c.CrashDate.Before(dr.First) {
			dr.First = c.CrashDate
		}
		if c.CrashDate.After(dr.Last) {
			dr.Last = c.CrashDate
		}
	}
	return dr
}
