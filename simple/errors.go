package simple

import "fmt"

// ErrClosed is returned by any Device method after Close.
type ErrClosed struct{}

func (ErrClosed) Error() string { return "simple: device is closed" }

// SensorUnavailableError is returned when a sensor has no connected
// DIRECT entry in the cached Status yet.
type SensorUnavailableError struct {
	Sensor string
}

func (e *SensorUnavailableError) Error() string {
	return fmt.Sprintf("simple: sensor %q is not connected", e.Sensor)
}
