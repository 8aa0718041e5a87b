package sweep

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/metropolis"
)

// second PCG word derived from the seed
const pcgStream = 0x9e3779b97f4a7c15

// State is the evolving chain: a lattice plus cached totals that always
// equal a full recomputation over it. A State must come from Initialize or
// FromLattice; a zero or hand-assembled State is rejected with
// ErrUninitializedState.
type State struct {
	Lattice       *lattice.Lattice
	Energy        float64
	Magnetization float64

	sampler *metropolis.Sampler
}

type initOptions struct {
	ordered ising.Spin
}

type InitOption func(*initOptions)

// WithOrderedStart starts from a fully aligned lattice instead of random spins.
func WithOrderedStart(s ising.Spin) InitOption {
	return func(o *initOptions) { o.ordered = s }
}

// NewSource returns the generator a run with this seed uses.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Initialize builds a lattice from seed and evaluates its energy and
// magnetization once in full.
func Initialize(rows, columns int, seed uint64, opts ...InitOption) (*State, error) {
	var o initOptions
	for _, opt := range opts {
		opt(&o)
	}

	rng := NewSource(seed)
	var (
		lat *lattice.Lattice
		err error
	)
	if o.ordered != 0 {
		lat, err = lattice.Uniform(rows, columns, o.ordered)
	} else {
		lat, err = lattice.New(rows, columns, rng)
	}
	if err != nil {
		return nil, err
	}
	return newState(lat, rng), nil
}

// FromLattice wraps an existing lattice. The lattice is owned by the state afterwards.
func FromLattice(lat *lattice.Lattice, rng ising.Source) *State {
	return newState(lat, rng)
}

func newState(lat *lattice.Lattice, rng ising.Source) *State {
	return &State{
		Lattice:       lat,
		Energy:        lat.TotalEnergy(),
		Magnetization: lat.TotalMagnetization(),
		sampler:       metropolis.New(rng),
	}
}

// Thermalize runs trials at temperature without measuring them.
func Thermalize(state *State, temperature float64, numberOfSteps int) error {
	if err := validatePoint(state, temperature, numberOfSteps); err != nil {
		return err
	}
	for i := 0; i < numberOfSteps; i++ {
		e, m, _, err := state.sampler.Step(state.Lattice, temperature, state.Energy, state.Magnetization)
		if err != nil {
			return err
		}
		state.Energy, state.Magnetization = e, m
	}
	return nil
}

// RunTemperaturePoint performs numberOfSteps trials on state at temperature,
// observing the totals after every trial. state is advanced in place and is
// the starting point of whatever runs next.
func RunTemperaturePoint(state *State, temperature float64, numberOfSteps int, extra ...ising.Metric) (ising.Record, error) {
	if err := validatePoint(state, temperature, numberOfSteps); err != nil {
		return ising.Record{}, err
	}

	for _, m := range extra {
		if ta, ok := m.(ising.TemperatureAware); ok {
			ta.SetTemperature(temperature)
		}
		m.Reset()
	}
	state.sampler.Reset()
	thermo := metrics.NewThermo()

	for i := 0; i < numberOfSteps; i++ {
		e, m, accepted, err := state.sampler.Step(state.Lattice, temperature, state.Energy, state.Magnetization)
		if err != nil {
			return ising.Record{}, err
		}
		state.Energy, state.Magnetization = e, m

		thermo.Observe(e, m)
		for _, metric := range extra {
			metric.Observe(e, m, accepted)
		}
	}

	avgM, avgE, cv, err := thermo.Finalize(temperature)
	if err != nil {
		return ising.Record{}, err
	}
	_, accepted := state.sampler.Stats()

	rec := ising.Record{
		Temperature:      temperature,
		AvgMagnetization: avgM,
		AvgEnergy:        avgE,
		HeatCapacity:     cv,
		Steps:            numberOfSteps,
		Accepted:         accepted,
		Metrics:          make(map[string]float64, len(extra)),
	}
	for _, m := range extra {
		rec.Metrics[m.Name()] = m.Value()
	}
	return rec, nil
}

func validatePoint(state *State, temperature float64, numberOfSteps int) error {
	if state == nil || state.Lattice == nil || state.sampler == nil {
		return ErrUninitializedState
	}
	if !(temperature > 0) {
		return fmt.Errorf("%w: %v", ising.ErrInvalidTemperature, temperature)
	}
	if numberOfSteps <= 0 {
		return fmt.Errorf("%w: %d", ising.ErrInvalidSteps, numberOfSteps)
	}
	return nil
}
