package simple

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// fakeDevice serves both the HTTP control surface under /api and the
// status WebSocket at /api/status, mirroring how a real device exposes
// both on one port.
func fakeDevice(t *testing.T, statusMessages []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				t.Errorf("upgrade: %v", err)
				return
			}
			defer conn.Close()
			for _, m := range statusMessages {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
					return
				}
			}
			// Keep the connection open until the client closes it so Close()
			// exercises a real disconnect rather than racing server teardown.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}
		fmt.Fprint(w, `{"result": []}`)
	})
	mux.HandleFunc("/api/recording:start", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": {"id": "rec-1"}}`)
	})
	return httptest.NewServer(mux)
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return u.Hostname(), port
}

func TestStatusMirroredFromBackgroundNotifier(t *testing.T) {
	srv := fakeDevice(t, []string{
		`{"model": "Phone", "data": {"device_id": "abc", "device_name": "p1", "battery_level_percent": 42, "battery_state": "OK", "ip": "10.0.0.2", "memory_bytes_free": 1, "memory_state": "OK"}}`,
	})
	defer srv.Close()
	host, port := hostPort(t, srv.URL)

	d := New(host, port)
	defer d.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if d.PhoneID() == "abc" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if d.PhoneID() != "abc" {
		t.Fatalf("PhoneID() = %q, want %q", d.PhoneID(), "abc")
	}
	if d.BatteryLevelPercent() != 42 {
		t.Errorf("BatteryLevelPercent() = %d, want 42", d.BatteryLevelPercent())
	}
}

func TestRecordingStartDelegatesToControlClient(t *testing.T) {
	srv := fakeDevice(t, nil)
	defer srv.Close()
	host, port := hostPort(t, srv.URL)

	d := New(host, port)
	defer d.Close()

	id, err := d.RecordingStart(context.Background())
	if err != nil {
		t.Fatalf("RecordingStart: %v", err)
	}
	if id != "rec-1" {
		t.Errorf("RecordingStart() = %q, want %q", id, "rec-1")
	}
}

func TestMethodsFailAfterClose(t *testing.T) {
	srv := fakeDevice(t, nil)
	defer srv.Close()
	host, port := hostPort(t, srv.URL)

	d := New(host, port)
	d.Close()

	if _, err := d.RecordingStart(context.Background()); err == nil {
		t.Fatal("RecordingStart after Close: want error, got nil")
	} else if _, ok := err.(ErrClosed); !ok {
		t.Errorf("RecordingStart after Close: err = %v, want ErrClosed", err)
	}

	if _, err := d.ReceiveGazeDatum(context.Background()); err == nil {
		t.Fatal("ReceiveGazeDatum after Close: want error, got nil")
	}
}

func TestReceiveUnavailableSensorReturnsTypedError(t *testing.T) {
	srv := fakeDevice(t, nil)
	defer srv.Close()
	host, port := hostPort(t, srv.URL)

	d := New(host, port)
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := d.ReceiveGazeDatum(ctx)
	if err == nil {
		t.Fatal("want error for a device with no connected gaze sensor")
	}
	if _, ok := err.(*SensorUnavailableError); !ok {
		if err != context.DeadlineExceeded {
			t.Errorf("err = %v (%T), want *SensorUnavailableError", err, err)
		}
	}
}
