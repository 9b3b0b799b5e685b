package gaze

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	lenMinimal          = 9
	lenMinimalTimestamp = 21
	lenEyeState         = 77
	lenEyeStateEyelids  = 121
	lenDual             = 18

	// eyeStateFieldBytes is the size of EyeState's documented fields
	// (Minimal + two EyeVectors + the f64 timestamp), before the trailing
	// reserved padding that brings a standalone payload up to lenEyeState.
	eyeStateFieldBytes = 9 + 2*28 + 8
)

// Decode dispatches on len(payload) to the matching variant.
// Fields beyond what each variant documents (present only to pad the wire
// size up to its published length) are read but discarded.
func Decode(payload []byte) (Sample, error) {
	switch len(payload) {
	case lenMinimal:
		m, err := decodeMinimal(bytes.NewReader(payload))
		return m, err
	case lenMinimalTimestamp:
		r := bytes.NewReader(payload)
		m, err := decodeMinimal(r)
		if err != nil {
			return nil, err
		}
		var ts float64
		if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		return MinimalTimestamp{Minimal: m, TimestampUnixSeconds: ts}, nil
	case lenEyeState:
		r := bytes.NewReader(payload)
		es, err := decodeEyeState(r)
		if err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		return es, nil
	case lenEyeStateEyelids:
		r := bytes.NewReader(payload)
		es, err := decodeEyeState(r)
		if err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		// Skip the reserved bytes that pad a standalone EyeState payload
		// out to lenEyeState; the eyelid fields follow immediately after.
		if _, err := r.Seek(int64(lenEyeState-eyeStateFieldBytes), io.SeekCurrent); err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		var leftLid, rightLid Eyelid
		if err := binary.Read(r, binary.BigEndian, &leftLid); err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		if err := binary.Read(r, binary.BigEndian, &rightLid); err != nil {
			return nil, &PayloadDecodeError{Length: len(payload)}
		}
		return EyeStateEyelids{EyeState: es, LeftLid: leftLid, RightLid: rightLid}, nil
	case lenDual:
		r := bytes.NewReader(payload)
		left, err := decodeMinimal(r)
		if err != nil {
			return nil, err
		}
		right, err := decodeMinimal(r)
		if err != nil {
			return nil, err
		}
		return Dual{Left: left, Right: right}, nil
	default:
		return nil, &PayloadDecodeError{Length: len(payload)}
	}
}

func decodeMinimal(r *bytes.Reader) (Minimal, error) {
	var fields struct {
		X, Y float32
		Worn uint8
	}
	if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
		return Minimal{}, &PayloadDecodeError{Length: r.Len()}
	}
	return Minimal{Point: Point{X: fields.X, Y: fields.Y}, Worn: fields.Worn == 255}, nil
}

func decodeEyeState(r *bytes.Reader) (EyeState, error) {
	minimal, err := decodeMinimal(r)
	if err != nil {
		return EyeState{}, err
	}
	var left, right EyeVector
	if err := binary.Read(r, binary.BigEndian, &left); err != nil {
		return EyeState{}, err
	}
	if err := binary.Read(r, binary.BigEndian, &right); err != nil {
		return EyeState{}, err
	}
	var ts float64
	if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
		return EyeState{}, err
	}
	return EyeState{Minimal: minimal, Left: left, Right: right, TimestampUnixSeconds: ts}, nil
}

// Encode serializes a Sample back to its wire form, for round-trip testing.
// Reserved padding bytes are written as zero.
func Encode(s Sample) []byte {
	buf := new(bytes.Buffer)
	switch v := s.(type) {
	case Minimal:
		encodeMinimal(buf, v)
	case MinimalTimestamp:
		encodeMinimal(buf, v.Minimal)
		binary.Write(buf, binary.BigEndian, v.TimestampUnixSeconds)
		buf.Write(make([]byte, lenMinimalTimestamp-buf.Len()))
	case EyeState:
		encodeEyeState(buf, v)
	case EyeStateEyelids:
		encodeEyeState(buf, v.EyeState)
		binary.Write(buf, binary.BigEndian, v.LeftLid)
		binary.Write(buf, binary.BigEndian, v.RightLid)
		buf.Write(make([]byte, lenEyeStateEyelids-buf.Len()))
	case Dual:
		encodeMinimal(buf, v.Left)
		encodeMinimal(buf, v.Right)
	}
	return buf.Bytes()
}

func encodeMinimal(buf *bytes.Buffer, m Minimal) {
	worn := uint8(0)
	if m.Worn {
		worn = 255
	}
	binary.Write(buf, binary.BigEndian, m.X)
	binary.Write(buf, binary.BigEndian, m.Y)
	binary.Write(buf, binary.BigEndian, worn)
}

func encodeEyeState(buf *bytes.Buffer, es EyeState) {
	encodeMinimal(buf, es.Minimal)
	binary.Write(buf, binary.BigEndian, es.Left)
	binary.Write(buf, binary.BigEndian, es.Right)
	binary.Write(buf, binary.BigEndian, es.TimestampUnixSeconds)
	buf.Write(make([]byte, lenEyeState-buf.Len()))
}
