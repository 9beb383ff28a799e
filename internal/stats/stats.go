// Package stats holds the numeric primitives the analyzers are built on.
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrInvalidInput is returned for degenerate input such as an empty sequence.
var ErrInvalidInput = errors.New("invalid input")

// Abramowitz and Stegun 7.1.26 coefficients.
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrInvalidInput
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Median sorts a copy of values and returns the middle element, or the
// average of the two middle elements for an even count.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrInvalidInput
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[middle-1] + sorted[middle]) / 2, nil
	}
	return sorted[middle], nil
}

// StandardDeviation is the population standard deviation (divides by N).
func StandardDeviation(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	var squares float64
	for _, v := range values {
		d := v - mean
		squares += d * d
	}
	return math.Sqrt(squares / float64(len(values))), nil
}

// NormalCDF approximates P(Z <= z) for a standard normal Z. The absolute
// error is below 1.5e-7. Negative z is reflected so that
// NormalCDF(-z) == 1 - NormalCDF(z).
func NormalCDF(z float64) float64 {
	if z == 0 {
		return 0.5
	}
	p := upperHalfCDF(math.Abs(z))
	if z < 0 {
		return 1 - p
	}
	return p
}

func upperHalfCDF(z float64) float64 {
	x := z / math.Sqrt2
	t := 1 / (1 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	erf := 1 - poly*math.Exp(-x*x)
	return 0.5 * (1 + erf)
}
