package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

// Browser maintains the live set of discovered devices and fans out
// ADDED/REMOVED events to subscribers with a non-blocking send, dropping
// the event for any subscriber whose channel is full.
type Browser struct {
	mu          sync.Mutex
	live        map[string]DiscoveredDevice
	order       []string
	expiry      map[string]*time.Timer
	subscribers map[string]chan<- Event
	closed      bool
}

// NewBrowser returns an empty Browser. Call Run to start browsing.
func NewBrowser() *Browser {
	return &Browser{
		live:        make(map[string]DiscoveredDevice),
		expiry:      make(map[string]*time.Timer),
		subscribers: make(map[string]chan<- Event),
	}
}

// Subscribe registers ch to receive live-set Events.
func (b *Browser) Subscribe(id string, ch chan<- Event) error {
	if ch == nil {
		return fmt.Errorf("discovery: subscriber channel cannot be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed{}
	}
	if _, exists := b.subscribers[id]; exists {
		return ErrSubscriberExists{ID: id}
	}
	b.subscribers[id] = ch
	return nil
}

// Unsubscribe removes a subscriber by id.
func (b *Browser) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed{}
	}
	if _, exists := b.subscribers[id]; !exists {
		return ErrSubscriberNotFound{ID: id}
	}
	delete(b.subscribers, id)
	return nil
}

func (b *Browser) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Devices returns the current live set, ordered by first-seen.
func (b *Browser) Devices() []DiscoveredDevice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]DiscoveredDevice, 0, len(b.order))
	for _, name := range b.order {
		if d, ok := b.live[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Close stops accepting new subscribers. It does not close subscriber
// channels or stop an in-flight Run; cancel Run's context for that.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Run browses serviceType until ctx is cancelled, applying each observed
// entry to the live set and publishing ADDED/REMOVED events. An entry
// that is not refreshed within its advertised TTL is expired as REMOVED.
// Run blocks until ctx is done or the resolver fails to start.
func (b *Browser) Run(ctx context.Context) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return &DiscoveryError{Err: err}
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, serviceType, "local.", entries); err != nil {
		return &DiscoveryError{Err: err}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case entry, ok := <-entries:
			if !ok {
				return nil
			}
			if entry == nil || !isValidServiceName(entry.Instance) {
				continue
			}
			b.observe(entry)
		}
	}
}

func (b *Browser) observe(entry *zeroconf.ServiceEntry) {
	name := entry.Instance
	device := DiscoveredDevice{
		Name:       name,
		Host:       entry.HostName,
		Port:       entry.Port,
		TXTRecords: parseTXT(entry.Text),
	}
	if len(entry.AddrIPv4) > 0 {
		device.IPv4 = entry.AddrIPv4[0].String()
	}

	b.mu.Lock()
	_, known := b.live[name]
	b.live[name] = device
	if !known {
		b.order = append(b.order, name)
	}
	if t, ok := b.expiry[name]; ok {
		t.Stop()
	}
	ttl := time.Duration(entry.TTL) * time.Second
	if ttl <= 0 {
		ttl = 120 * time.Second
	}
	b.expiry[name] = time.AfterFunc(ttl, func() { b.expire(name) })
	b.mu.Unlock()

	if !known {
		b.publish(Event{Kind: EventAdded, Record: device})
	}
}

func (b *Browser) expire(name string) {
	b.mu.Lock()
	if _, ok := b.live[name]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.live, name)
	delete(b.expiry, name)
	b.mu.Unlock()
	b.publish(Event{Kind: EventRemoved, Name: name})
}

func parseTXT(records []string) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		k, v, found := strings.Cut(r, "=")
		if !found {
			out[r] = ""
			continue
		}
		out[k] = v
	}
	return out
}
