package servo

import (
	"errors"
	"fmt"
)

// ErrUnknownChannel is returned when a channel id is not in the registry.
var ErrUnknownChannel = errors.New("servo: unknown channel")

// OutOfRangeError is returned by strict moves when the requested angle
// falls outside the channel's safe range. Interpolated moves clamp instead.
type OutOfRangeError struct {
	Channel int
	Angle   float64
	Min     float64
	Max     float64
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("servo: angle %.0f out of safe range %.0f-%.0f for channel %d",
		e.Angle, e.Min, e.Max, e.Channel)
}

// DriverError wraps a failed write to the actuator driver.
type DriverError struct {
	Channel int
	Angle   float64
	Err     error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	return fmt.Sprintf("servo: driver write failed for channel %d at %.0f: %v",
		e.Channel, e.Angle, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *DriverError) Unwrap() error {
	return e.Err
}
