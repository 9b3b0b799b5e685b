package simple

import (
	"context"
	"fmt"
	"time"

	"github.com/pupil-labs/realtime-go/rtsp"
	"github.com/pupil-labs/realtime-go/status"
	"github.com/pupil-labs/realtime-go/video"
)

// request is one piece of work posted to the device's background worker.
// op runs on the worker goroutine, which exclusively owns d.sensors, and
// its result is delivered back on resp.
type request struct {
	op   func(d *Device) (any, error)
	resp chan opResult
}

type opResult struct {
	val any
	err error
}

// sensorStream is one open direct RTSP session for a sensor. The worker
// goroutine creates it, keeps it in d.sensors, and tears it down on Close;
// its reader, depk and pending fields are used, without locking, by the
// goroutine receiving from the sensor (a Receive* caller or a
// matched-pipeline pump).
type sensorStream struct {
	name    status.SensorName
	sess    *rtsp.Session
	reader  *rtsp.StreamReader
	depk    *video.Depacketizer // non-nil only for the world/eyes video sensors
	pending []video.AccessUnit  // access units decoded but not yet delivered
}

// run is the background worker loop: it is the sole owner of d.sensors
// and serializes every session-affecting call through d.reqs.
// Call-response rather than a single-slot mailbox, since each request
// needs its own answer rather than "latest wins".
func (d *Device) run() {
	for {
		select {
		case <-d.closed:
			for _, ss := range d.sensors {
				closeSensorStream(ss)
			}
			return
		case req := <-d.reqs:
			val, err := req.op(d)
			req.resp <- opResult{val: val, err: err}
		}
	}
}

// call posts op to the worker and blocks for its result.
func (d *Device) call(ctx context.Context, op func(d *Device) (any, error)) (any, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	req := request{op: op, resp: make(chan opResult, 1)}
	select {
	case d.reqs <- req:
	case <-d.closed:
		return nil, ErrClosed{}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.resp:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func closeSensorStream(ss *sensorStream) {
	if ss.reader != nil {
		ss.reader.Close()
	}
	if ss.sess != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ss.sess.Teardown(ctx)
	}
}

// ensureSensorStream opens name's direct RTSP session and stream reader
// on first use, reusing the cached one on subsequent calls. It must only
// run on the worker goroutine (inside an op func).
func (d *Device) ensureSensorStream(ctx context.Context, name status.SensorName) (*sensorStream, error) {
	if ss, ok := d.sensors[name]; ok {
		return ss, nil
	}

	sensor, ok := d.Status().Sensors[status.SensorKey{Sensor: name, Connection: status.ConnectionDirect}]
	if !ok || !sensor.Connected {
		return nil, &SensorUnavailableError{Sensor: string(name)}
	}

	sess, err := rtsp.Open(ctx, sensor.URL(), rtsp.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("simple: opening %s session: %w", name, err)
	}

	reader, err := sess.NewStreamReader(0)
	if err != nil {
		sess.Teardown(ctx)
		return nil, fmt.Errorf("simple: starting %s reader: %w", name, err)
	}

	ss := &sensorStream{name: name, sess: sess, reader: reader}
	if name == status.SensorWorld || name == status.SensorEyes {
		media := sess.Media()
		var paramSets [][]byte
		if len(media) > 0 {
			if sprop, ok := media[0].FmtpParams["sprop-parameter-sets"]; ok {
				if ps, perr := video.ParseSpropParameterSets(sprop); perr == nil {
					paramSets = ps
				}
			}
		}
		ss.depk = video.NewDepacketizer(paramSets)
	}

	d.sensors[name] = ss
	return ss, nil
}
