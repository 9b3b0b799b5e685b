package wallclock

// NoSenderReportError is returned when WallClockNS is called before any
// RTCP Sender Report has been observed for the stream.
type NoSenderReportError struct{}

func (NoSenderReportError) Error() string {
	return "wallclock: no sender report observed yet"
}
