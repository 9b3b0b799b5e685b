package gaze

import (
	"reflect"
	"testing"
)

// TestDecodeEncodeRoundTrip checks that encode then decode yields
// bit-equal fields for every defined variant.
func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
	}{
		{"Minimal", Minimal{Point: Point{X: 0.5, Y: -0.25}, Worn: true}},
		{"EyeState", EyeState{
			Minimal: Minimal{Point: Point{X: 0.1, Y: 0.2}, Worn: true},
			Left:    EyeVector{PupilDiameter: 3.1, Center: [3]float32{1, 2, 3}, Axis: [3]float32{0.1, 0.2, 0.3}},
			Right:   EyeVector{PupilDiameter: 3.2, Center: [3]float32{4, 5, 6}, Axis: [3]float32{0.4, 0.5, 0.6}},
			TimestampUnixSeconds: 1700000000.5,
		}},
		{"EyeStateEyelids", EyeStateEyelids{
			EyeState: EyeState{
				Minimal:              Minimal{Point: Point{X: 0.1, Y: 0.2}, Worn: false},
				Left:                 EyeVector{PupilDiameter: 3.1, Center: [3]float32{1, 2, 3}, Axis: [3]float32{0.1, 0.2, 0.3}},
				Right:                EyeVector{PupilDiameter: 3.2, Center: [3]float32{4, 5, 6}, Axis: [3]float32{0.4, 0.5, 0.6}},
				TimestampUnixSeconds: 1700000000.5,
			},
			LeftLid:  Eyelid{AngleTop: 1, AngleBottom: 2, Aperture: 3},
			RightLid: Eyelid{AngleTop: 4, AngleBottom: 5, Aperture: 6},
		}},
		{"Dual", Dual{
			Left:  Minimal{Point: Point{X: 0.1, Y: 0.2}, Worn: true},
			Right: Minimal{Point: Point{X: 0.3, Y: 0.4}, Worn: false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := Encode(tt.sample)
			got, err := Decode(wire)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.sample) {
				t.Errorf("Decode(Encode(s)) = %#v, want %#v", got, tt.sample)
			}
		})
	}
}

func TestDecodeMinimalWornFlag(t *testing.T) {
	payload := Encode(Minimal{Point: Point{X: 1, Y: 2}, Worn: true})
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := got.(Minimal)
	if !ok || !m.Worn {
		t.Fatalf("got %#v, want Worn=true", got)
	}
}

func TestDecodeUnknownLength(t *testing.T) {
	_, err := Decode(make([]byte, 5))
	if _, ok := err.(*PayloadDecodeError); !ok {
		t.Fatalf("err = %v, want *PayloadDecodeError", err)
	}
}

func TestDecodeMinimalTimestamp(t *testing.T) {
	payload := make([]byte, lenMinimalTimestamp)
	copy(payload, Encode(MinimalTimestamp{
		Minimal:               Minimal{Point: Point{X: 1, Y: 2}, Worn: true},
		TimestampUnixSeconds:   1700000000.25,
	}))
	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	mt, ok := got.(MinimalTimestamp)
	if !ok {
		t.Fatalf("got %T, want MinimalTimestamp", got)
	}
	if mt.TimestampUnixSeconds != 1700000000.25 {
		t.Errorf("TimestampUnixSeconds = %v, want 1700000000.25", mt.TimestampUnixSeconds)
	}
}
