package aggregate

import (
	"sort"

	perr "tubelens/internal/platform/errors"
)

// Percentile computes the p-th percentile of values by linear interpolation
// between order statistics: rank = p/100 * (n-1), interpolating between the
// neighbouring samples when the rank is fractional. p must be in [0,100] and
// values non-empty
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, perr.InvalidArgf("percentile of empty sample")
	}
	if p < 0 || p > 100 {
		return 0, perr.InvalidArgf("percentile %v out of range [0,100]", p)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p), nil
}

// percentileSorted assumes sorted non-empty input and p in [0,100]
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
