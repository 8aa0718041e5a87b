package metropolis

import (
	"fmt"
	"math"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/lattice"
)

// Sampler performs single-site Metropolis trials. Draws per trial are
// IntN(rows), IntN(columns) and, only for uphill moves, one Float64.
type Sampler struct {
	rng      ising.Source
	trials   int
	accepted int
}

func New(rng ising.Source) *Sampler {
	return &Sampler{rng: rng}
}

// Step proposes flipping one uniformly chosen site of lat and returns the
// updated energy and magnetization. The lattice is mutated only on acceptance.
func (s *Sampler) Step(lat *lattice.Lattice, temperature, energy, magnetization float64) (float64, float64, bool, error) {
	if !(temperature > 0) {
		return energy, magnetization, false, fmt.Errorf("%w: %v", ising.ErrInvalidTemperature, temperature)
	}

	r := s.rng.IntN(lat.Rows())
	c := s.rng.IntN(lat.Columns())
	s.trials++

	deltaE := lat.LocalEnergyDelta(r, c)
	if deltaE > 0 && s.rng.Float64() >= math.Exp(-deltaE/temperature) {
		return energy, magnetization, false, nil
	}

	deltaM := lat.LocalMagnetizationDelta(r, c)
	lat.Flip(r, c)
	s.accepted++
	return energy + deltaE, magnetization + deltaM, true, nil
}

// Stats returns the trials and acceptances since the last Reset.
func (s *Sampler) Stats() (trials, accepted int) { return s.trials, s.accepted }

func (s *Sampler) Reset() {
	s.trials = 0
	s.accepted = 0
}

// AcceptanceProbability is min(1, exp(-deltaE/T)).
func AcceptanceProbability(deltaE, temperature float64) float64 {
	if deltaE <= 0 {
		return 1
	}
	return math.Exp(-deltaE / temperature)
}
