package imu

import (
	"bytes"
	"encoding/binary"
)

const (
	lenWithoutTemperature = 3*4 + 3*4 + 4*4 + 8
	lenWithTemperature    = lenWithoutTemperature + 4
)

// Decode parses a fixed-size IMU payload in network byte order. Whether
// temperature_c is present is determined purely by payload length.
func Decode(payload []byte) (Sample, error) {
	hasTemperature := len(payload) == lenWithTemperature
	if !hasTemperature && len(payload) != lenWithoutTemperature {
		return Sample{}, &PayloadDecodeError{Length: len(payload)}
	}

	r := bytes.NewReader(payload)
	var fields struct {
		Accel Vec3
		Gyro  Vec3
		Quat  Quaternion
	}
	if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
		return Sample{}, &PayloadDecodeError{Length: len(payload)}
	}

	s := Sample{AccelG: fields.Accel, GyroDPS: fields.Gyro, Quaternion: fields.Quat}

	if hasTemperature {
		var temp float32
		if err := binary.Read(r, binary.BigEndian, &temp); err != nil {
			return Sample{}, &PayloadDecodeError{Length: len(payload)}
		}
		s.TemperatureC = &temp
	}

	if err := binary.Read(r, binary.BigEndian, &s.TimestampUnixNS); err != nil {
		return Sample{}, &PayloadDecodeError{Length: len(payload)}
	}
	return s, nil
}

// Encode serializes a Sample back to its wire form, for round-trip testing.
func Encode(s Sample) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, s.AccelG)
	binary.Write(buf, binary.BigEndian, s.GyroDPS)
	binary.Write(buf, binary.BigEndian, s.Quaternion)
	if s.TemperatureC != nil {
		binary.Write(buf, binary.BigEndian, *s.TemperatureC)
	}
	binary.Write(buf, binary.BigEndian, s.TimestampUnixNS)
	return buf.Bytes()
}
