// Package wallclock maps RTP media timestamps onto Unix wall-clock
// nanoseconds using RTCP Sender Reports.
//
// RTP timestamps are 32-bit and wrap; a Mapper tracks a 64-bit extended
// timestamp internally so offsets stay correct across a wraparound.
package wallclock
