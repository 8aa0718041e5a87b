package sweep

import (
	"errors"
	"fmt"
)

// ErrUninitializedState is returned for a State that was not built by
// Initialize or FromLattice.
var ErrUninitializedState = errors.New("sweep: state not initialized")

// TemperatureError wraps a failure with the temperature point it happened at.
type TemperatureError struct {
	Index       int
	Temperature float64
	Wrapped     error
}

func (e *TemperatureError) Error() string {
	return fmt.Sprintf("temperature point %d (T=%.4f): %v", e.Index, e.Temperature, e.Wrapped)
}

func (e *TemperatureError) Unwrap() error {
	return e.Wrapped
}
