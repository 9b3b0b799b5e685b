package gaze

// Sample is the common interface satisfied by every decoded gaze variant.
// Consumers type-switch on the concrete type to reach variant-specific
// fields.
type Sample interface {
	sample()
}

// Point is a 2D scene-camera coordinate.
type Point struct {
	X, Y float32
}

// Minimal is the 9-byte variant: a gaze point and a worn indicator.
type Minimal struct {
	Point
	Worn bool
}

func (Minimal) sample() {}

// MinimalTimestamp adds an in-payload Unix-seconds timestamp to Minimal.
type MinimalTimestamp struct {
	Minimal
	TimestampUnixSeconds float64
}

func (MinimalTimestamp) sample() {}

// EyeVector holds a pupil diameter, eyeball center, and optical axis for one
// eye, as carried by the EyeState and EyeStateEyelids variants.
type EyeVector struct {
	PupilDiameter float32
	Center        [3]float32
	Axis          [3]float32
}

// EyeState is the 77-byte variant: Minimal plus per-eye pupil/eyeball state.
type EyeState struct {
	Minimal
	Left, Right           EyeVector
	TimestampUnixSeconds   float64
}

func (EyeState) sample() {}

// Eyelid holds the per-eye eyelid angles and aperture added by
// EyeStateEyelids.
type Eyelid struct {
	AngleTop, AngleBottom, Aperture float32
}

// EyeStateEyelids is the 121-byte variant: EyeState plus per-eye eyelid
// state.
type EyeStateEyelids struct {
	EyeState
	LeftLid, RightLid Eyelid
}

func (EyeStateEyelids) sample() {}

// Dual is the 18-byte Invisible variant: independent Minimal records for
// each eye's gaze estimate.
type Dual struct {
	Left, Right Minimal
}

func (Dual) sample() {}
