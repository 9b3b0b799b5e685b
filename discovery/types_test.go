package discovery

import "testing"

func TestIsValidServiceName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"PI monitor:Living Room:abc123", true},
		{"PI monitor:", true},
		{"Some Other Service:x:y", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidServiceName(tt.name); got != tt.want {
			t.Errorf("isValidServiceName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPhoneNameAndID(t *testing.T) {
	d := DiscoveredDevice{Name: "PI monitor:Living Room:abc123"}
	if got := d.PhoneName(); got != "Living Room" {
		t.Errorf("PhoneName() = %q", got)
	}
	if got := d.PhoneID(); got != "abc123" {
		t.Errorf("PhoneID() = %q", got)
	}
}

func TestPhoneNameAndIDMalformed(t *testing.T) {
	d := DiscoveredDevice{Name: "PI monitor"}
	if got := d.PhoneName(); got != "" {
		t.Errorf("PhoneName() = %q, want empty", got)
	}
	if got := d.PhoneID(); got != "" {
		t.Errorf("PhoneID() = %q, want empty", got)
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"api=1.0", "solo"})
	if got["api"] != "1.0" {
		t.Errorf("api = %q", got["api"])
	}
	if _, ok := got["solo"]; !ok {
		t.Errorf("expected key %q present", "solo")
	}
}
