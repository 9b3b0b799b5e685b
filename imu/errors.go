package imu

import "fmt"

// PayloadDecodeError is returned when a payload's length matches neither
// the with- nor without-temperature fixed layout.
type PayloadDecodeError struct {
	Length int
}

func (e *PayloadDecodeError) Error() string {
	return fmt.Sprintf("imu: payload of %d bytes matches no known layout", e.Length)
}
