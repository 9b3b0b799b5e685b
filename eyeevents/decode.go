package eyeevents

import (
	"bytes"
	"encoding/binary"
)

const (
	lenMovement = 1 + 8 + 8 + 4*6 + 4*4 // type + start/end ns + 3 gaze points + 4 scalars
	lenOnset    = 1 + 8
	lenBlink    = 1 + 8 + 8
)

// Decode dispatches on the payload's leading event_type byte and parses
// the remaining network-byte-order fields for that type. rtpTSUnixSeconds
// is the wall-clock timestamp the RTSP/wall-clock layer (C7) derived for
// this packet's RTP timestamp; it is attached to the returned event rather
// than read from the wire.
func Decode(payload []byte, rtpTSUnixSeconds float64) (Event, error) {
	if len(payload) == 0 {
		return nil, &DecodeError{Length: 0}
	}
	kind := Kind(payload[0])
	r := bytes.NewReader(payload[1:])

	switch kind {
	case KindSaccadeEnd, KindFixationEnd:
		if len(payload) != lenMovement {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		var fields struct {
			StartNS, EndNS                int64
			StartGaze, EndGaze, MeanGaze   Point2D
			AmplitudePixels, AmplitudeDeg  float32
			MeanVelocity, MaxVelocity      float32
		}
		if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		return Movement{
			Kind:                    kind,
			StartNS:                 fields.StartNS,
			EndNS:                   fields.EndNS,
			StartGaze:               fields.StartGaze,
			EndGaze:                 fields.EndGaze,
			MeanGaze:                fields.MeanGaze,
			AmplitudePixels:         fields.AmplitudePixels,
			AmplitudeDeg:            fields.AmplitudeDeg,
			MeanVelocity:            fields.MeanVelocity,
			MaxVelocity:             fields.MaxVelocity,
			RTPTimestampUnixSeconds: rtpTSUnixSeconds,
		}, nil

	case KindSaccadeOnset, KindFixationOnset:
		if len(payload) != lenOnset {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		var startNS int64
		if err := binary.Read(r, binary.BigEndian, &startNS); err != nil {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		return Onset{Kind: kind, StartNS: startNS, RTPTimestampUnixSeconds: rtpTSUnixSeconds}, nil

	case KindBlink:
		if len(payload) != lenBlink {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		var fields struct{ StartNS, EndNS int64 }
		if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
			return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
		}
		return Blink{StartNS: fields.StartNS, EndNS: fields.EndNS, RTPTimestampUnixSeconds: rtpTSUnixSeconds}, nil

	default:
		return nil, &DecodeError{EventType: payload[0], Length: len(payload)}
	}
}
