// Package timeecho estimates the offset between the local wall clock and a
// device's clock using the Time Echo UDP protocol: the client sends its
// current time as an 8-byte big-endian nanosecond timestamp, the device
// echoes back its own clock, and round-trip time is assumed symmetric to
// split the difference.
package timeecho
