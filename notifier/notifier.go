package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/pupil-labs/realtime-go/status"
)

// Update is what a subscriber receives: either a successfully applied
// Component plus the new Snapshot, or a terminal Err once the connection
// has dropped (Component and Snapshot are unset in that case).
type Update struct {
	Component status.Component
	Snapshot  *status.Status
	Err       error
}

// Notifier mirrors one device's Status over its WebSocket status channel.
type Notifier struct {
	url string

	snapshot atomic.Pointer[status.Status]

	mu          sync.RWMutex
	subscribers map[string]chan<- Update
	closed      bool
}

// New returns a Notifier for ws://host:port/api/status. Call Run to start
// mirroring; Status reflects status.New() (all-zero) until the first
// component arrives.
func New(host string, port int) *Notifier {
	n := &Notifier{
		url:         fmt.Sprintf("ws://%s:%d/api/status", host, port),
		subscribers: make(map[string]chan<- Update),
	}
	n.snapshot.Store(status.New())
	return n
}

// Status returns the most recently applied snapshot.
func (n *Notifier) Status() *status.Status {
	return n.snapshot.Load()
}

// Subscribe registers ch to receive Updates. Delivery is non-blocking: an
// Update is dropped for a subscriber whose channel is full, favoring
// latency over completeness.
func (n *Notifier) Subscribe(id string, ch chan<- Update) error {
	if ch == nil {
		return fmt.Errorf("notifier: subscriber channel cannot be nil")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed{}
	}
	if _, exists := n.subscribers[id]; exists {
		return ErrSubscriberExists{ID: id}
	}
	n.subscribers[id] = ch
	return nil
}

// Unsubscribe removes a subscriber by id.
func (n *Notifier) Unsubscribe(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed{}
	}
	if _, exists := n.subscribers[id]; !exists {
		return ErrSubscriberNotFound{ID: id}
	}
	delete(n.subscribers, id)
	return nil
}

func (n *Notifier) publish(u Update) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.subscribers {
		select {
		case ch <- u:
		default:
		}
	}
}

// Close marks the notifier closed; further Subscribe/Unsubscribe calls
// fail. It does not close subscriber channels.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

// Run dials the status WebSocket and mirrors components until ctx is
// cancelled or the connection drops, reporting a *DisconnectedError to
// subscribers and returning it in either case. The caller is responsible
// for reconnecting: Run does not retry on its own.
func (n *Notifier) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, n.url, nil)
	if err != nil {
		derr := &DisconnectedError{Err: err}
		n.publish(Update{Err: derr})
		return derr
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			derr := &DisconnectedError{Err: err}
			n.publish(Update{Err: derr})
			return derr
		}

		comp, err := status.ParseComponent(payload)
		if err != nil {
			slog.Warn("notifier: dropping unknown status component", "error", err)
			continue
		}

		next := n.snapshot.Load().Apply(comp)
		n.snapshot.Store(next)
		n.publish(Update{Component: comp, Snapshot: next})
	}
}
