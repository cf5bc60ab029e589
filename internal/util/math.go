package util

import "math"

// Round1 rounds to one decimal place, the precision every score and
// average is reported at.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Mean returns the arithmetic mean of vs, or nil when vs is empty.
// Absence is distinct from zero: a student with no scored submissions
// has no average at all.
func Mean(vs []float64) *float64 {
	if len(vs) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	m := sum / float64(len(vs))
	return &m
}
