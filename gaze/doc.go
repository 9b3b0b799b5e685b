// Package gaze decodes the com.pupillabs.gaze1 RTP payload family. Each
// RTP packet carries exactly one gaze sample in network byte order; the
// payload length alone selects which of the five variants is on the
// wire, so Decode dispatches purely on len(payload).
package gaze
