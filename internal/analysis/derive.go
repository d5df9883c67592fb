package analysis

import "github.com/KaramelBytes/crashpair/internal/dataset"

// PairSeparator joins the two factors of a FactorPair.
const PairSeparator = " || "

// Severity holds the per-crash severity metrics.
type Severity struct {
	TotalInjuries int  `json:"total_injuries" yaml:"total_injuries"`
	TotalKilled   int  `json:"total_killed" yaml:"total_killed"`
	SeverityCount int  `json:"severity_count" yaml:"severity_count"`
	Severe        bool `json:"is_severe" yaml:"is_severe"`
}

// DeriveSeverity computes severity metrics for r. Missing counts are zero;
// negative counts are passed through unchanged.
func DeriveSeverity(r dataset.Record) Severity {
	inj := r.Injured.OrZero()
	killed := r.Killed.OrZero()
	return Severity{
		TotalInjuries: inj,
		TotalKilled:   killed,
		SeverityCount: inj + killed,
		Severe:        killed >= 1 || inj >= 2,
	}
}

// Comparison relates the two normalized factors of a crash.
type Comparison struct {
	FactorsMatch bool   `json:"factors_match" yaml:"factors_match"`
	FactorPair   string `json:"factor_pair" yaml:"factor_pair"`
}

// CompareFactors compares two already-normalized factors with plain string
// equality. The pair keeps vehicle 1 first.
func CompareFactors(f1, f2 string) Comparison {
	return compareWith(f1, f2, PairSeparator)
}

func compareWith(f1, f2, sep string) Comparison {
	return Comparison{FactorsMatch: f1 == f2, FactorPair: f1 + sep + f2}
}

// Collision is a two-vehicle record with its derived columns.
type Collision struct {
	dataset.Record
	Severity
	Comparison
}

// Derive attaches severity and factor comparison to each normalized record.
func Derive(records []dataset.Record, sep string) []Collision {
	if sep == "" {
		sep = PairSeparator
	}
	out := make([]Collision, len(records))
	for i, r := range records {
		out[i] = Collision{
			Record:     r,
			Severity:   DeriveSeverity(r),
			Comparison: compareWith(r.Factor1.Value, r.Factor2.Value, sep),
		}
	}
	return out
}
