package ising

import "fmt"

// Spin is the state of one lattice site. Legal values are Up and Down.
type Spin int8

const (
	Up   Spin = 1
	Down Spin = -1
)

// Valid reports whether s is +1 or -1.
func (s Spin) Valid() bool { return s == Up || s == Down }

func (s Spin) String() string {
	switch s {
	case Up:
		return "+1"
	case Down:
		return "-1"
	default:
		return fmt.Sprintf("Spin(%d)", int8(s))
	}
}

// Record holds the observables estimated at one temperature of a sweep.
type Record struct {
	Temperature      float64
	AvgMagnetization float64
	AvgEnergy        float64
	HeatCapacity     float64
	Steps            int
	Accepted         int
	Metrics          map[string]float64
}

// AcceptanceRatio is the fraction of trials that flipped a spin.
func (r Record) AcceptanceRatio() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Steps)
}

// Metric accumulates a scalar over the trials of one temperature point.
type Metric interface {
	Name() string
	Observe(energy, magnetization float64, accepted bool)
	Value() float64
	Reset()
}

// Observer receives each record as soon as its temperature point finishes.
type Observer interface {
	OnRecord(rec Record) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(rec Record) error

func (f ObserverFunc) OnRecord(rec Record) error { return f(rec) }

// Source is the random generator contract used for initialization and
// sampling. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// TemperatureAware is implemented by metrics whose value depends on the
// temperature of the point being measured.
type TemperatureAware interface {
	SetTemperature(t float64)
}
