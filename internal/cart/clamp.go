package cart

import "math"

// Clamp bounds v to [lo, hi]. Callers are responsible for lo <= hi; with an
// inverted range the result collapses to lo, because the evaluation order is
// max(lo, min(hi, v)). The storefront relies on that for the "negative stock"
// edge, so it must not be reordered.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ToInteger coerces a numeric input to an integer, returning 0 when the
// input is not a finite number (NaN, ±Inf). Values beyond the int range
// saturate at the bounds.
func ToInteger(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= math.MaxInt {
		return math.MaxInt
	}
	if v <= math.MinInt {
		return math.MinInt
	}
	return int(v)
}

// ToMoney coerces a numeric input to a finite monetary amount, returning 0
// when the input is not finite. Negative values pass through untouched.
func ToMoney(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
