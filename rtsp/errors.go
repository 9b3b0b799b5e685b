package rtsp

import "fmt"

// StatusError wraps a non-2xx RTSP response.
type StatusError struct {
	Method     string
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rtsp: %s: %d %s", e.Method, e.StatusCode, e.Reason)
}

// MissingTimestampWarning marks a sample delivered after the configurable
// grace window elapsed without the session's wall-clock mapper having
// observed a Sender Report. The sample itself is still emitted, with
// WallClockNS unset.
type MissingTimestampWarning struct {
	Media string
}

func (e *MissingTimestampWarning) Error() string {
	return fmt.Sprintf("rtsp: %s: no sender report within grace window, wall clock unset", e.Media)
}
