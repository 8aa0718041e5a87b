// Package sweep runs the Metropolis chain across a sequence of temperatures.
//
// A [State] owns one lattice, the generator that drives it, and the cached
// energy and magnetization kept in step with it. [RunTemperaturePoint]
// advances the state by a fixed number of trials at one temperature and
// reduces the trajectory to a record. [Driver] repeats that over an
// inclusive arithmetic sequence of temperatures.
//
// By default the lattice is carried from one temperature to the next with no
// thermalization phase, so the sweep behaves like a slow anneal. Set
// [Config.ResetEachTemperature] or [Config.BurnInSteps] to change that.
package sweep
