// Package bracket classifies generator power ratings into the ten fixed
// pricing brackets used to key the service lookup tables.
package bracket

import (
	"math"

	"genquote/internal/errors"
)

// Range is one inclusive power-rating range with its stable label
type Range struct {
	// Min is the inclusive lower bound in kW
	Min float64

	// Max is the inclusive upper bound in kW
	Max float64

	// Label is the stable bracket label used as a lookup key
	Label string
}

// ranges is the ordered bracket table. Labels are the spreadsheet's
// original row headers; classification scans by Max, so ratings in the
// label gaps (31-34 kW) resolve to the next bracket up.
var ranges = []Range{
	{2, 14, "2-14"},
	{15, 30, "15-30"},
	{35, 150, "35-150"},
	{151, 250, "151-250"},
	{251, 400, "251-400"},
	{401, 500, "401-500"},
	{501, 670, "501-670"},
	{671, 1050, "671-1050"},
	{1051, 1500, "1051-1500"},
	{1501, 2050, "1501+"},
}

// Ranges returns a copy of the bracket table
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// Labels returns the bracket labels in ascending order
func Labels() []string {
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = r.Label
	}
	return out
}

// Classify maps a power rating to its bracket label. Negative or NaN
// input fails; ratings above the top range clamp to the top bracket.
// The asymmetry (fail below zero, clamp above 2050) matches the
// spreadsheet lookup the tables were derived from.
func Classify(kw float64) (string, error) {
	if math.IsNaN(kw) || kw < 0 {
		return "", errors.Input("power rating must be a non-negative number")
	}
	for _, r := range ranges {
		if kw <= r.Max {
			return r.Label, nil
		}
	}
	return ranges[len(ranges)-1].Label, nil
}

// ClassifyCascade is an independently written classification using
// cascading comparisons. It exists only to cross-check Classify; the
// regression tests prove both agree for every integer in [0, 2100].
func ClassifyCascade(kw float64) (string, error) {
	if math.IsNaN(kw) || kw < 0 {
		return "", errors.Input("power rating must be a non-negative number")
	}
	switch {
	case kw <= 14:
		return "2-14", nil
	case kw <= 30:
		return "15-30", nil
	case kw <= 150:
		return "35-150", nil
	case kw <= 250:
		return "151-250", nil
	case kw <= 400:
		return "251-400", nil
	case kw <= 500:
		return "401-500", nil
	case kw <= 670:
		return "501-670", nil
	case kw <= 1050:
		return "671-1050", nil
	case kw <= 1500:
		return "1051-1500", nil
	default:
		return "1501+", nil
	}
}

// Tier returns the zero-based bracket index for a label, or -1 for an
// unknown label. Service D keys its fee tiers on this index.
func Tier(label string) int {
	for i, r := range ranges {
		if r.Label == label {
			return i
		}
	}
	return -1
}
