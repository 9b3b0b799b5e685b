package control

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// CameraIntrinsics is a pinhole camera model: a 3x3 row-major matrix and
// eight radial/tangential distortion coefficients.
type CameraIntrinsics struct {
	Matrix      [9]float64
	Distortion  [8]float64
}

// Extrinsics is a rigid transform (rotation matrix, translation vector)
// from one camera's frame into another's.
type Extrinsics struct {
	Rotation    [9]float64
	Translation [3]float64
}

// Calibration is the device's factory calibration: per-camera intrinsics
// for the scene and both eye cameras, and the eye-to-scene extrinsics.
type Calibration struct {
	Scene, EyeLeft, EyeRight CameraIntrinsics
	EyeLeftToScene           Extrinsics
	EyeRightToScene          Extrinsics
}

const calibrationBodyLen = 3*(9*8+8*8) + 2*(9*8+3*8)

// ParseCalibration decodes the fixed-layout binary calibration blob and
// verifies its trailing CRC32 against the preceding bytes.
func ParseCalibration(blob []byte) (*Calibration, error) {
	if len(blob) != calibrationBodyLen+4 {
		return nil, fmt.Errorf("control: calibration blob is %d bytes, want %d", len(blob), calibrationBodyLen+4)
	}
	body, trailer := blob[:calibrationBodyLen], blob[calibrationBodyLen:]
	want := binary.BigEndian.Uint32(trailer)
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, fmt.Errorf("control: calibration CRC32 mismatch: got %#x, want %#x", got, want)
	}

	r := bytes.NewReader(body)
	var c Calibration
	for _, intr := range []*CameraIntrinsics{&c.Scene, &c.EyeLeft, &c.EyeRight} {
		if err := binary.Read(r, binary.BigEndian, intr); err != nil {
			return nil, fmt.Errorf("control: decoding calibration: %w", err)
		}
	}
	for _, ext := range []*Extrinsics{&c.EyeLeftToScene, &c.EyeRightToScene} {
		if err := binary.Read(r, binary.BigEndian, ext); err != nil {
			return nil, fmt.Errorf("control: decoding calibration: %w", err)
		}
	}
	return &c, nil
}
