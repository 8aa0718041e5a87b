package metrics

import "math"

// AcceptanceRate is the fraction of observed trials that flipped a spin.
type AcceptanceRate struct {
	trials   int
	accepted int
}

func NewAcceptanceRate() *AcceptanceRate { return &AcceptanceRate{} }

func (a *AcceptanceRate) Name() string { return "acceptance_rate" }

func (a *AcceptanceRate) Observe(_, _ float64, accepted bool) {
	a.trials++
	if accepted {
		a.accepted++
	}
}

func (a *AcceptanceRate) Value() float64 {
	if a.trials == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.trials)
}

func (a *AcceptanceRate) Reset() {
	a.trials = 0
	a.accepted = 0
}

// AbsMagnetization averages |M|, which stays meaningful when a finite
// lattice flips between the two ordered states.
type AbsMagnetization struct {
	sum     float64
	samples int
}

func NewAbsMagnetization() *AbsMagnetization { return &AbsMagnetization{} }

func (a *AbsMagnetization) Name() string { return "abs_magnetization" }

func (a *AbsMagnetization) Observe(_, magnetization float64, _ bool) {
	a.sum += math.Abs(magnetization)
	a.samples++
}

func (a *AbsMagnetization) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AbsMagnetization) Reset() {
	a.sum = 0
	a.samples = 0
}

// Susceptibility is (<M²> - <|M|>²) / T. The driver sets T before each point.
type Susceptibility struct {
	temperature float64
	sum         float64
	sumSquared  float64
	samples     int
}

func NewSusceptibility() *Susceptibility { return &Susceptibility{} }

func (s *Susceptibility) SetTemperature(t float64) { s.temperature = t }

func (s *Susceptibility) Name() string { return "susceptibility" }

func (s *Susceptibility) Observe(_, magnetization float64, _ bool) {
	m := math.Abs(magnetization)
	s.sum += m
	s.sumSquared += m * m
	s.samples++
}

func (s *Susceptibility) Value() float64 {
	if s.samples == 0 || s.temperature <= 0 {
		return 0
	}
	n := float64(s.samples)
	mean := s.sum / n
	return (s.sumSquared/n - mean*mean) / s.temperature
}

func (s *Susceptibility) Reset() {
	s.sum = 0
	s.sumSquared = 0
	s.samples = 0
}
