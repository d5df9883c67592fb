package analysis

import (
	"strings"
	"unicode"

	"github.com/KaramelBytes/crashpair/internal/dataset"
)

// Unspecified replaces missing or blank contributing factors.
const Unspecified = "Unspecified"

// NormalizeFactor canonicalizes a raw contributing factor: missing or blank
// values become Unspecified, everything else is trimmed and title-cased.
func NormalizeFactor(raw dataset.Cell) string {
	if !raw.Valid {
		return Unspecified
	}
	v := strings.TrimSpace(raw.Value)
	if v == "" {
		return Unspecified
	}
	return TitleCase(v)
}

// TitleCase upper-cases every letter that follows a non-letter and lower-cases
// the rest, so "suv/van" becomes "Suv/Van" and "UNSAFE SPEED" becomes "Unsafe Speed".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		if cased {
			if prevCased {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
		}
		b.WriteRune(r)
		prevCased = cased
	}
	return b.String()
}

// Normalize returns a copy of records with both factor fields canonicalized.
// After normalization every factor cell is present and non-blank.
func Normalize(records []dataset.Record) []dataset.Record {
	out := make([]dataset.Record, len(records))
	for i, r := range records {
		r.Factor1 = dataset.Present(NormalizeFactor(r.Factor1))
		r.Factor2 = dataset.Present(NormalizeFactor(r.Factor2))
		out[i] = r
	}
	return out
}
