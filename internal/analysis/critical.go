package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/isingsim/internal/ising"
)

// CriticalTemperature of the infinite square lattice.
var CriticalTemperature = 2 / math.Log(1+math.Sqrt2)

var ErrNoRecords = errors.New("analysis: no records")

// ExactMagnetization is Yang's spontaneous magnetization per spin,
// (1 - sinh(2/T)^-4)^(1/8) below T_c and zero above.
func ExactMagnetization(temperature float64) float64 {
	if temperature <= 0 {
		return 1
	}
	if temperature >= CriticalTemperature {
		return 0
	}
	s := math.Sinh(2 / temperature)
	return math.Pow(1-math.Pow(s, -4), 0.125)
}

// PeakHeatCapacity returns the record with the largest heat capacity.
func PeakHeatCapacity(records []ising.Record) (ising.Record, int, error) {
	if len(records) == 0 {
		return ising.Record{}, -1, ErrNoRecords
	}
	best := 0
	for i, rec := range records {
		if rec.HeatCapacity > records[best].HeatCapacity {
			best = i
		}
	}
	return records[best], best, nil
}

// EstimateTc fits a parabola through the heat capacity peak and its two
// neighbors. A peak on the edge of the sweep is returned as is.
func EstimateTc(records []ising.Record) (float64, error) {
	peak, i, err := PeakHeatCapacity(records)
	if err != nil {
		return 0, err
	}
	if i == 0 || i == len(records)-1 {
		return peak.Temperature, nil
	}

	x0, y0 := records[i-1].Temperature, records[i-1].HeatCapacity
	x1, y1 := records[i].Temperature, records[i].HeatCapacity
	x2, y2 := records[i+1].Temperature, records[i+1].HeatCapacity

	denom := (x0 - x1) * (x0 - x2) * (x1 - x2)
	if denom == 0 {
		return x1, nil
	}
	a := (x2*(y1-y0) + x1*(y0-y2) + x0*(y2-y1)) / denom
	b := (x2*x2*(y0-y1) + x1*x1*(y2-y0) + x0*x0*(y1-y2)) / denom
	if a >= 0 {
		return x1, nil
	}

	tc := -b / (2 * a)
	if tc < x0 || tc > x2 {
		return x1, nil
	}
	return tc, nil
}

// Deviation pairs a measured |M| per spin with the exact value at the same temperature.
type Deviation struct {
	Temperature float64
	Measured    float64
	Exact       float64
}

func (d Deviation) Abs() float64 { return math.Abs(d.Measured - d.Exact) }

// CompareMagnetization uses the abs_magnetization metric when present and |<M>| otherwise.
func CompareMagnetization(records []ising.Record, sites int) ([]Deviation, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if sites <= 0 {
		return nil, ising.ErrInvalidDimension
	}

	out := make([]Deviation, len(records))
	for i, rec := range records {
		m, ok := rec.Metrics["abs_magnetization"]
		if !ok {
			m = math.Abs(rec.AvgMagnetization)
		}
		out[i] = Deviation{
			Temperature: rec.Temperature,
			Measured:    m / float64(sites),
			Exact:       ExactMagnetization(rec.Temperature),
		}
	}
	return out, nil
}
