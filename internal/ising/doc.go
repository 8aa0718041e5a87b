// Package ising provides the core types shared by the Ising model packages.
//
// The package defines the vocabulary the simulation is written in:
//
//   - [Spin]: the two-valued state of one lattice site
//   - [Record]: the observables estimated at one temperature
//   - [Metric]: an accumulator fed once per Metropolis trial
//   - [Observer]: a consumer of records as a sweep produces them
//   - [Source]: the seedable generator every random draw comes from
//
// # Example
//
//	state, _ := sweep.Initialize(100, 100, 42)
//	rec, _ := sweep.RunTemperaturePoint(state, 2.27, 1_000_000)
//	fmt.Println(rec.AvgMagnetization, rec.HeatCapacity)
//
// # Thread Safety
//
// Nothing in the simulation path is safe for concurrent use. A lattice and the
// generator driving it belong to a single goroutine for the whole sweep.
package ising
