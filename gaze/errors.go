package gaze

import "fmt"

// PayloadDecodeError is returned when a payload's length does not match any
// known gaze variant. The packet carrying it is dropped; the session
// continues with the next packet.
type PayloadDecodeError struct {
	Length int
}

func (e *PayloadDecodeError) Error() string {
	return fmt.Sprintf("gaze: payload of %d bytes matches no known variant", e.Length)
}
