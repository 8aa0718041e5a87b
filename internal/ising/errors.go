package ising

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidDimension indicates a lattice with a non-positive row or column count.
	ErrInvalidDimension = errors.New("ising: lattice dimensions must be positive")

	// ErrInvalidTemperature indicates a temperature that is zero, negative or NaN.
	ErrInvalidTemperature = errors.New("ising: temperature must be positive")

	// ErrEmptySample indicates statistics were finalized without any observation.
	ErrEmptySample = errors.New("ising: no observations to average")

	// ErrInvalidSteps indicates a non-positive number of Metropolis trials.
	ErrInvalidSteps = errors.New("ising: number of steps must be positive")

	// ErrInvalidSweep indicates a temperature sweep that cannot be enumerated.
	ErrInvalidSweep = errors.New("ising: invalid temperature sweep")

	// ErrInvalidSpin indicates a spin value other than +1 or -1.
	ErrInvalidSpin = errors.New("ising: spin must be +1 or -1")
)
