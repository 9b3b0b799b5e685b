package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// fakeStatusServer serves one WebSocket connection on /api/status and
// writes each of messages in turn before closing.
func fakeStatusServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
	}))
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

func TestRunAppliesComponentsAndPublishes(t *testing.T) {
	messages := []string{
		`{"model": "Phone", "data": {"device_id": "abc", "device_name": "p1", "battery_level_percent": 50, "battery_state": "OK", "ip": "10.0.0.2", "memory_bytes_free": 1, "memory_state": "OK"}}`,
		`{"model": "Bogus", "data": {}}`,
		`{"model": "Hardware", "data": {"version": "1", "module_serial": "m1", "glasses_serial": "g1", "world_camera_serial": "w1"}}`,
	}
	srv := fakeStatusServer(t, messages)
	defer srv.Close()
	host, port := hostPort(t, srv.URL)

	n := New(host, port)
	ch := make(chan Update, 10)
	if err := n.Subscribe("test", ch); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := n.Run(ctx)
	if _, ok := err.(*DisconnectedError); !ok {
		t.Fatalf("err = %v (%T), want *DisconnectedError", err, err)
	}

	st := n.Status()
	if st.Phone.DeviceID != "abc" {
		t.Errorf("Phone.DeviceID = %q", st.Phone.DeviceID)
	}
	if st.Hardware.ModuleSerial != "m1" {
		t.Errorf("Hardware.ModuleSerial = %q", st.Hardware.ModuleSerial)
	}

	var applied int
	var sawTerminal bool
drain:
	for {
		select {
		case u := <-ch:
			if u.Err != nil {
				sawTerminal = true
				continue
			}
			applied++
		default:
			break drain
		}
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2 (Bogus is dropped)", applied)
	}
	if !sawTerminal {
		t.Error("expected a terminal Update after disconnect")
	}
}

func TestSubscribeDuplicateID(t *testing.T) {
	n := New("127.0.0.1", 0)
	ch := make(chan Update, 1)
	if err := n.Subscribe("a", ch); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	err := n.Subscribe("a", ch)
	if _, ok := err.(ErrSubscriberExists); !ok {
		t.Fatalf("err = %v, want ErrSubscriberExists", err)
	}
}

func TestUnsubscribeUnknownID(t *testing.T) {
	n := New("127.0.0.1", 0)
	err := n.Unsubscribe("missing")
	if _, ok := err.(ErrSubscriberNotFound); !ok {
		t.Fatalf("err = %v, want ErrSubscriberNotFound", err)
	}
}
