package timeecho

import "fmt"

// ProtocolNotSupportedError is returned when a device advertises no
// time_echo_port, meaning it does not implement the Time Echo protocol.
type ProtocolNotSupportedError struct{}

func (ProtocolNotSupportedError) Error() string {
	return "timeecho: device does not advertise a time echo port"
}

// TimeoutError is returned when a round does not receive a response within
// its deadline.
type TimeoutError struct {
	Round int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeecho: round %d timed out waiting for device response", e.Round)
}
