// Package eyeevents decodes the com.pupillabs.eventlist1 RTP payload: a
// 1-byte event_type switch in network byte order followed by a fixed field
// set that depends on the type.
package eyeevents
