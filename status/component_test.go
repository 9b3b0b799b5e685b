package status

import (
	"reflect"
	"testing"
)

func TestParseComponentRoundTrip(t *testing.T) {
	port := 12345
	cases := []Component{
		Phone{DeviceID: "d1", DeviceName: "phone", BatteryLevelPercent: 80, BatteryState: BatteryOK, IP: "10.0.0.2", MemoryBytesFree: 1024, MemoryState: MemoryOK, TimeEchoPort: &port},
		Hardware{Version: "1.0", ModuleSerial: "m1", GlassesSerial: "g1", WorldCameraSerial: "w1"},
		Sensor{Sensor: SensorWorld, Connection: ConnectionDirect, Connected: true, IP: "10.0.0.2", Port: 8080, Protocol: "rtsp", Params: "camera=world"},
		Recording{ID: "R1", RecDurationNS: 1000, Action: RecordingStart, Message: ""},
		NetworkDevice{Name: "peer", Host: "peer.local", IPv4: "10.0.0.3", Port: 80, TXTRecords: map[string]string{"k": "v"}},
	}

	for _, want := range cases {
		raw, err := Serialize(want)
		if err != nil {
			t.Fatalf("Serialize(%v): %v", want, err)
		}
		got, err := ParseComponent(raw)
		if err != nil {
			t.Fatalf("ParseComponent(%s): %v", raw, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip mismatch: got %#v, want %#v", got, want)
		}
	}
}

func TestParseComponentUnknownModel(t *testing.T) {
	_, err := ParseComponent([]byte(`{"model":"Bogus","data":{}}`))
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
	var unknown *UnknownComponentError
	if !asUnknown(err, &unknown) {
		t.Fatalf("expected *UnknownComponentError, got %T: %v", err, err)
	}
	if unknown.Model != "Bogus" {
		t.Errorf("Model = %q, want %q", unknown.Model, "Bogus")
	}
}

func asUnknown(err error, target **UnknownComponentError) bool {
	if u, ok := err.(*UnknownComponentError); ok {
		*target = u
		return true
	}
	return false
}
