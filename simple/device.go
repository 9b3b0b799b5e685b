package simple

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pupil-labs/realtime-go/control"
	"github.com/pupil-labs/realtime-go/discovery"
	"github.com/pupil-labs/realtime-go/notifier"
	"github.com/pupil-labs/realtime-go/status"
)

// Device is a blocking, auto-connecting handle to one Pupil Labs
// Realtime API device.
type Device struct {
	host string
	port int

	control *control.Client
	notif   *notifier.Notifier

	bgCancel context.CancelFunc
	bgDone   sync.WaitGroup

	reqs      chan request
	closed    chan struct{}
	closeOnce sync.Once

	sensors map[status.SensorName]*sensorStream // worker-owned, never touched outside run()

	matchedMu        sync.Mutex
	sceneGazeMatcher *matchedPipeline

	traceID string // correlates this Device's log lines across reconnects
}

// New returns a Device for host:port and starts its background status
// mirror and session worker. Use FromDiscovered to build one from a
// discovery.DiscoveredDevice instead.
func New(host string, port int) *Device {
	d := &Device{
		host:    host,
		port:    port,
		control: control.New(host, port),
		notif:   notifier.New(host, port),
		reqs:    make(chan request),
		closed:  make(chan struct{}),
		sensors: make(map[status.SensorName]*sensorStream),
		traceID: uuid.New().String(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.bgCancel = cancel

	d.bgDone.Add(2)
	go func() {
		defer d.bgDone.Done()
		d.runNotifierWithReconnect(ctx)
	}()
	go func() {
		defer d.bgDone.Done()
		d.run()
	}()
	return d
}

// FromDiscovered builds a Device from a live mDNS record.
func FromDiscovered(rec discovery.DiscoveredDevice) *Device {
	return New(rec.IPv4, rec.Port)
}

// Close stops the background status mirror and worker, closes every
// open RTSP session, and releases the control client's connections.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		d.matchedMu.Lock()
		if d.sceneGazeMatcher != nil {
			d.sceneGazeMatcher.stop()
		}
		d.matchedMu.Unlock()

		d.bgCancel()
		close(d.closed)
		d.bgDone.Wait()
		d.control.Close()
	})
}

// Status returns the most recently mirrored Status (no I/O).
func (d *Device) Status() *status.Status { return d.notif.Status() }

func (d *Device) PhoneName() string { return d.Status().Phone.DeviceName }
func (d *Device) PhoneID() string   { return d.Status().Phone.DeviceID }
func (d *Device) PhoneIP() string   { return d.Status().Phone.IP }

func (d *Device) BatteryLevelPercent() int           { return d.Status().Phone.BatteryLevelPercent }
func (d *Device) BatteryState() status.BatteryState  { return d.Status().Phone.BatteryState }
func (d *Device) MemoryNumFreeBytes() int64          { return d.Status().Phone.MemoryBytesFree }
func (d *Device) MemoryState() status.MemoryState    { return d.Status().Phone.MemoryState }
func (d *Device) SerialNumberGlasses() string        { return d.Status().Hardware.GlassesSerial }
func (d *Device) SerialNumberSceneCam() string       { return d.Status().Hardware.WorldCameraSerial }

// RecordingStart starts a recording; the device may refuse it with
// *control.RecordingStartError (e.g. template gating).
func (d *Device) RecordingStart(ctx context.Context) (string, error) {
	if err := d.checkOpen(); err != nil {
		return "", err
	}
	return d.control.RecordingStart(ctx)
}

// RecordingStopAndSave stops the active recording and keeps its data.
func (d *Device) RecordingStopAndSave(ctx context.Context) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.control.RecordingStopAndSave(ctx)
}

// RecordingCancel stops the active recording and discards its data.
func (d *Device) RecordingCancel(ctx context.Context) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.control.RecordingCancel(ctx)
}

// SendEvent posts a named event, optionally pre-stamped.
func (d *Device) SendEvent(ctx context.Context, name string, timestampUnixNS int64) (status.Event, error) {
	if err := d.checkOpen(); err != nil {
		return status.Event{}, err
	}
	return d.control.SendEvent(ctx, name, timestampUnixNS)
}

// GetTemplate fetches the device's currently selected template.
func (d *Device) GetTemplate(ctx context.Context) (*status.Template, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return d.control.GetTemplate(ctx)
}

// GetTemplateData fetches the answers currently entered on the device.
func (d *Device) GetTemplateData(ctx context.Context) (status.Responses, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return d.control.GetTemplateData(ctx)
}

// PostTemplateData submits template answers.
func (d *Device) PostTemplateData(ctx context.Context, answers status.Responses) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	return d.control.PostTemplateData(ctx, answers)
}

func (d *Device) checkOpen() error {
	select {
	case <-d.closed:
		return ErrClosed{}
	default:
		return nil
	}
}

// runNotifierWithReconnect keeps the status mirror alive, following the
// teacher's exponential-backoff reconnect shape (capped at 30s) rather
// than the bare notifier package's "caller reconnects" contract — the
// facade's whole point is to hide that from callers.
func (d *Device) runNotifierWithReconnect(ctx context.Context) {
	delay := time.Second
	const maxDelay = 30 * time.Second
	for {
		err := d.notif.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("simple: status mirror disconnected, reconnecting", "trace_id", d.traceID, "error", err, "delay", delay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
