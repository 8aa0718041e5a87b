package metrics

import (
	"fmt"

	"github.com/san-kum/isingsim/internal/ising"
)

// Thermo accumulates energy and magnetization over the trials of one
// temperature point. Every trial is observed, accepted or not.
type Thermo struct {
	sumEnergy        float64
	sumEnergySquared float64
	sumMagnetization float64
	count            int
}

func NewThermo() *Thermo { return &Thermo{} }

func (t *Thermo) Observe(energy, magnetization float64) {
	t.sumEnergy += energy
	t.sumEnergySquared += energy * energy
	t.sumMagnetization += magnetization
	t.count++
}

func (t *Thermo) Count() int { return t.count }

// Finalize reduces the series to <M>, <E> and Cv = (<E²> - <E>²) / T².
func (t *Thermo) Finalize(temperature float64) (avgMagnetization, avgEnergy, heatCapacity float64, err error) {
	if t.count == 0 {
		return 0, 0, 0, ising.ErrEmptySample
	}
	if !(temperature > 0) {
		return 0, 0, 0, fmt.Errorf("%w: %v", ising.ErrInvalidTemperature, temperature)
	}

	n := float64(t.count)
	avgMagnetization = t.sumMagnetization / n
	avgEnergy = t.sumEnergy / n
	avgEnergySquared := t.sumEnergySquared / n
	heatCapacity = (avgEnergySquared - avgEnergy*avgEnergy) / (temperature * temperature)
	return avgMagnetization, avgEnergy, heatCapacity, nil
}

func (t *Thermo) Reset() {
	t.sumEnergy = 0
	t.sumEnergySquared = 0
	t.sumMagnetization = 0
	t.count = 0
}
