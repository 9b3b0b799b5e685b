package control

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	host := u.Hostname()
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return New(host, port)
}

func TestGetStatusReducesComponents(t *testing.T) {
	body := `{"result": [
		{"model": "Phone", "data": {"device_id": "abc", "device_name": "phone1", "battery_level_percent": 80, "battery_state": "OK", "ip": "10.0.0.2", "memory_bytes_free": 1000, "memory_state": "OK"}},
		{"model": "Hardware", "data": {"version": "1", "module_serial": "m1", "glasses_serial": "g1", "world_camera_serial": "w1"}},
		{"model": "Bogus", "data": {}}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	st, err := c.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Phone.DeviceID != "abc" {
		t.Errorf("Phone.DeviceID = %q", st.Phone.DeviceID)
	}
	if st.Hardware.ModuleSerial != "m1" {
		t.Errorf("Hardware.ModuleSerial = %q", st.Hardware.ModuleSerial)
	}
}

func TestRecordingLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/recording:start":
			w.Write([]byte(`{"result": {"id": "rec-1"}}`))
		case "/api/recording:stop_and_save", "/api/recording:cancel":
			w.Write([]byte(`{"result": {}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	id, err := c.RecordingStart(context.Background())
	if err != nil {
		t.Fatalf("RecordingStart: %v", err)
	}
	if id != "rec-1" {
		t.Errorf("id = %q, want rec-1", id)
	}
	if err := c.RecordingStopAndSave(context.Background()); err != nil {
		t.Fatalf("RecordingStopAndSave: %v", err)
	}
}

func TestRecordingStartFailureReturnsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "no wearer detected"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.RecordingStart(context.Background())
	rse, ok := err.(*RecordingStartError)
	if !ok {
		t.Fatalf("err = %v, want *RecordingStartError", err)
	}
	if rse.Reason != "no wearer detected" {
		t.Errorf("Reason = %q", rse.Reason)
	}
}

func TestSendEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["name"] != "trigger" {
			t.Fatalf("name = %v", body["name"])
		}
		fmt.Fprintf(w, `{"result": {"name": %q, "timestamp": 42}}`, body["name"])
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	ev, err := c.SendEvent(context.Background(), "trigger", 0)
	if err != nil {
		t.Fatalf("SendEvent: %v", err)
	}
	if ev.Name != "trigger" || ev.TimestampNS != 42 {
		t.Errorf("event = %+v", ev)
	}
}

func TestPostTemplateDataValidationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"result": {"errors": [{"ItemID": "q1", "Message": "required item is empty"}]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	err := c.PostTemplateData(context.Background(), map[string][]string{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "q1") {
		t.Errorf("err = %v", err)
	}
}

func buildCalibrationFixture() []byte {
	var buf bytes.Buffer
	var intr CameraIntrinsics
	intr.Matrix[0] = 1
	var ext Extrinsics
	ext.Translation[0] = 1
	for range 3 {
		binary.Write(&buf, binary.BigEndian, intr)
	}
	for range 2 {
		binary.Write(&buf, binary.BigEndian, ext)
	}
	body := buf.Bytes()
	checksum := crc32.ChecksumIEEE(body)
	trailer := make([]byte, 4)
	binary.BigEndian.PutUint32(trailer, checksum)
	return append(body, trailer...)
}

func TestGetCalibration(t *testing.T) {
	blob := buildCalibrationFixture()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(blob)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	cal, err := c.GetCalibration(context.Background())
	if err != nil {
		t.Fatalf("GetCalibration: %v", err)
	}
	if cal.Scene.Matrix[0] != 1 {
		t.Errorf("Scene.Matrix[0] = %v", cal.Scene.Matrix[0])
	}
	if cal.EyeLeftToScene.Translation[0] != 1 {
		t.Errorf("EyeLeftToScene.Translation[0] = %v", cal.EyeLeftToScene.Translation[0])
	}
}
