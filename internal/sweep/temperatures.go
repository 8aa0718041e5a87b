package sweep

import (
	"fmt"
	"math"

	"github.com/san-kum/isingsim/internal/ising"
)

// MaxTemperatures bounds the number of points a single sweep may enumerate.
const MaxTemperatures = 1_000_000

// Temperatures enumerates start, start+step, ... up to and including end.
// Points are computed as start+i·step with a single rounding so error does
// not accumulate, and end is kept when it lies on the grid to within 1e-9 of
// a step.
func Temperatures(start, end, step float64) ([]float64, error) {
	if !(start > 0) {
		return nil, fmt.Errorf("sweep start: %w: %v", ising.ErrInvalidTemperature, start)
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", ising.ErrInvalidSweep, step)
	}
	if !(end >= start) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("%w: end %v is below start %v", ising.ErrInvalidSweep, end, start)
	}

	span := math.Floor((end-start)/step + 1e-9)
	if math.IsNaN(span) || math.IsInf(span, 0) || span+1 > MaxTemperatures {
		return nil, fmt.Errorf("%w: %v..%v by %v exceeds %d points",
			ising.ErrInvalidSweep, start, end, step, MaxTemperatures)
	}

	temps := make([]float64, int(span)+1)
	for i := range temps {
		temps[i] = math.FMA(float64(i), step, start)
	}
	return temps, nil
}
