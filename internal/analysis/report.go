package analysis

import (
	"fmt"
	"strings"
)

// Text renders the console report: row counts, the group summary and the
// factor pair ranking, in that order. Notes follow when present.
func (r *Result) Text() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Amount of rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Two-vehicle collisions: %d\n", r.TwoVehicle))

	b.WriteString("\nSummary by factors_match:\n")
	if len(r.Groups) == 0 {
		b.WriteString("(no two-vehicle collisions)\n")
	} else {
		b.WriteString(fmt.Sprintf("%-13s  %-12s  %9s  %13s  %10s\n", "factors_match", "group", "n_crashes", "mean_severity", "pct_severe"))
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("%-13d  %-12s  %9d  %13.4f  %10.2f\n", boolIndex(g.FactorsMatch), g.Label(), g.NCrashes, g.MeanSeverity, g.PctSevere))
		}
	}

	b.WriteString("\nTop factor pairs:\n")
	if len(r.TopPairs) == 0 {
		b.WriteString("(none)\n")
	} else {
		width := 0
		for _, p := range r.TopPairs {
			if n := len([]rune(p.FactorPair)); n > width {
				width = n
			}
		}
		for _, p := range r.TopPairs {
			b.WriteString(fmt.Sprintf("%-*s  %d\n", width, p.FactorPair, p.Count))
		}
	}

	notes := r.notes()
	if len(notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Result) notes() []string {
	var out []string
	if r.Dates != nil {
		out = append(out, fmt.Sprintf("crash dates %s to %s", r.Dates.First.Format("2006-01-02"), r.Dates.Last.Format("2006-01-02")))
	}
	if d, ok := r.SevereDelta(); ok {
		out = append(out, fmt.Sprintf("matching minus non-matching percent severe: %+.2f points", d))
	}
	return append(out, r.Warnings...)
}

// Markdown renders the report as a standalone Markdown document.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("# Contributing factor match vs. crash severity\n\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s  \n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s  \n", r.RunID))
	b.WriteString(fmt.Sprintf("Rows: %d  \n", r.Rows))
	b.WriteString(fmt.Sprintf("Two-vehicle collisions: %d\n\n", r.TwoVehicle))

	b.WriteString("## Severity by factor match\n\n")
	if len(r.Groups) == 0 {
		b.WriteString("_No two-vehicle collisions._\n")
	} else {
		b.WriteString("| group | factors_match | n_crashes | mean_severity | pct_severe |\n")
		b.WriteString("| --- | --- | ---: | ---: | ---: |\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.2f%% |\n", g.Label(), boolIndex(g.FactorsMatch), g.NCrashes, g.MeanSeverity, g.PctSevere))
		}
	}
	if len(r.Distributions) > 0 {
		b.WriteString("\n## severity_count distribution\n\n")
		b.WriteString("| group | min | q1 | median | q3 | max | outliers |\n")
		b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")
		for _, d := range r.Distributions {
			x := d.Box
			b.WriteString(fmt.Sprintf("| %s | %.4g | %.4g | %.4g | %.4g | %.4g | %d |\n", d.Label(), x.Min, x.Q1, x.Median, x.Q3, x.Max, x.Outliers))
		}
	}

	b.WriteString(fmt.Sprintf("\n## Top %d factor pairs\n\n", len(r.TopPairs)))
	if len(r.TopPairs) == 0 {
		b.WriteString("_None._\n")
	} else {
		b.WriteString("| rank | factor_pair | count |\n")
		b.WriteString("| ---: | --- | ---: |\n")
		for i, p := range r.TopPairs {
			b.WriteString(fmt.Sprintf("| %d | %s | %d |\n", i+1, escapeCell(p.FactorPair), p.Count))
		}
	}

	if notes := r.notes(); len(notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// escapeCell keeps pair separators from splitting Markdown table cells.
func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", `\|`)
}
