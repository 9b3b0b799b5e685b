package simple

import (
	"context"
	"fmt"

	"github.com/pupil-labs/realtime-go/eyeevents"
	"github.com/pupil-labs/realtime-go/gaze"
	"github.com/pupil-labs/realtime-go/imu"
	"github.com/pupil-labs/realtime-go/rtsp"
	"github.com/pupil-labs/realtime-go/status"
	"github.com/pupil-labs/realtime-go/video"
)

// receiveSample ensures name's session is open, reads its next RTP
// packet, and returns the raw sample for the caller to decode. Opening
// the session runs on the worker goroutine; the blocking read itself
// happens on the caller's goroutine without locking. A matched-pipeline
// pump for the same sensor reads the same reader, and nothing serializes
// the two.
func (d *Device) receiveSample(ctx context.Context, name status.SensorName) (rtsp.Sample, error) {
	v, err := d.call(ctx, func(d *Device) (any, error) {
		return d.ensureSensorStream(ctx, name)
	})
	if err != nil {
		return rtsp.Sample{}, err
	}
	ss := v.(*sensorStream)
	return ss.reader.ReadRTP(ctx)
}

// ReceiveGazeDatum blocks for the next gaze sample.
func (d *Device) ReceiveGazeDatum(ctx context.Context) (gaze.Sample, error) {
	s, err := d.receiveSample(ctx, status.SensorGaze)
	if err != nil {
		return nil, err
	}
	return gaze.Decode(s.Packet.Payload)
}

// ReceiveIMUDatum blocks for the next IMU sample.
func (d *Device) ReceiveIMUDatum(ctx context.Context) (imu.Sample, error) {
	s, err := d.receiveSample(ctx, status.SensorIMU)
	if err != nil {
		return imu.Sample{}, err
	}
	return imu.Decode(s.Packet.Payload)
}

// ReceiveEyeEvent blocks for the next eye event of any kind (saccade or
// fixation onset/end, or blink).
func (d *Device) ReceiveEyeEvent(ctx context.Context) (eyeevents.Event, error) {
	s, err := d.receiveSample(ctx, status.SensorEyeEvents)
	if err != nil {
		return nil, err
	}
	return eyeevents.Decode(s.Packet.Payload, float64(s.WallClockNS)/1e9)
}

// receiveVideoFrame blocks until name's depacketizer emits a complete
// access unit, feeding it as many RTP packets as needed.
func (d *Device) receiveVideoFrame(ctx context.Context, name status.SensorName) (video.AccessUnit, error) {
	for {
		v, err := d.call(ctx, func(d *Device) (any, error) {
			return d.ensureSensorStream(ctx, name)
		})
		if err != nil {
			return video.AccessUnit{}, err
		}
		ss := v.(*sensorStream)

		if len(ss.pending) > 0 {
			au := ss.pending[0]
			ss.pending = ss.pending[1:]
			return au, nil
		}

		s, err := ss.reader.ReadRTP(ctx)
		if err != nil {
			return video.AccessUnit{}, err
		}
		if s.Missing {
			continue
		}
		aus, err := ss.depk.PushPacket(s.Packet)
		if err != nil {
			return video.AccessUnit{}, fmt.Errorf("simple: reassembling %s frame: %w", name, err)
		}
		if len(aus) > 0 {
			ss.pending = aus
			au := ss.pending[0]
			ss.pending = ss.pending[1:]
			return au, nil
		}
	}
}

// ReceiveSceneVideoFrame blocks for the next complete world-camera frame.
func (d *Device) ReceiveSceneVideoFrame(ctx context.Context) (video.AccessUnit, error) {
	return d.receiveVideoFrame(ctx, status.SensorWorld)
}

// ReceiveEyesVideoFrame blocks for the next complete eye-camera frame.
func (d *Device) ReceiveEyesVideoFrame(ctx context.Context) (video.AccessUnit, error) {
	return d.receiveVideoFrame(ctx, status.SensorEyes)
}
