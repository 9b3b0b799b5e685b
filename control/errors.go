package control

import "fmt"

// ControlTransportError wraps a failure to reach the device at all: DNS,
// connection refused, timeout, or a malformed response body.
type ControlTransportError struct {
	Op  string
	Err error
}

func (e *ControlTransportError) Error() string {
	return fmt.Sprintf("control: %s: %v", e.Op, e.Err)
}

func (e *ControlTransportError) Unwrap() error { return e.Err }

// DeviceError carries the device's own HTTP status and message for a
// command that reached it but failed.
type DeviceError struct {
	StatusCode int
	Message    string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("control: device returned %d: %s", e.StatusCode, e.Message)
}

// RecordingStartError is returned by RecordingStart when the device
// refuses to begin recording (template invalid, low battery, low storage,
// no wearer, no workspace, setup incomplete).
type RecordingStartError struct {
	Reason string
}

func (e *RecordingStartError) Error() string {
	return fmt.Sprintf("control: recording could not be started: %s", e.Reason)
}

// RecordingStopError is returned by RecordingStopAndSave/RecordingCancel
// when the device refuses to stop the active recording.
type RecordingStopError struct {
	Reason string
}

func (e *RecordingStopError) Error() string {
	return fmt.Sprintf("control: recording could not be stopped: %s", e.Reason)
}
