package simple

import (
	"context"
	"fmt"
	"time"

	"github.com/pupil-labs/realtime-go/eyeevents"
	"github.com/pupil-labs/realtime-go/gaze"
	"github.com/pupil-labs/realtime-go/match"
	"github.com/pupil-labs/realtime-go/status"
	"github.com/pupil-labs/realtime-go/video"
)

// matchedVideoFrame is what the video pump queues: the reassembled frame
// alongside the wall-clock timestamp of the packet that completed it,
// since video.AccessUnit only carries the raw RTP clock-rate timestamp.
type matchedVideoFrame struct {
	Frame       video.AccessUnit
	WallClockNS int64
}

// matchedPipeline runs one leader pump plus one or more follower pumps,
// each reading its own already-open sensor stream on a dedicated
// goroutine and feeding a match.Queue, alongside the match.Matcher that
// fuses them. Once started, a pump goroutine reads its StreamReader
// directly, not through the worker; a direct Receive* call for the same
// sensor reads the same StreamReader, and nothing serializes the two.
type matchedPipeline struct {
	matcher  *match.Matcher
	cancel   context.CancelFunc
	pumpErrs chan error
}

const (
	worldPeriod = 33 * time.Millisecond // ~30Hz scene camera
	matchWindow = 50 * time.Millisecond
)

func (d *Device) startPipeline(ctx context.Context, leaderName status.SensorName, followerNames ...status.SensorName) (*matchedPipeline, error) {
	leaderQ := match.NewQueue(string(leaderName), 32)
	followerQs := make(map[status.SensorName]*match.Queue, len(followerNames))
	followers := make([]match.FollowerConfig, 0, len(followerNames))
	for _, name := range followerNames {
		q := match.NewQueue(string(name), 128)
		followerQs[name] = q
		followers = append(followers, match.FollowerConfig{Name: string(name), Queue: q, Window: matchWindow})
	}

	pumpCtx, cancel := context.WithCancel(ctx)
	errs := make(chan error, 1+len(followerNames))

	leaderSS, err := d.openSensor(pumpCtx, leaderName)
	if err != nil {
		cancel()
		return nil, err
	}
	followerSS := make(map[status.SensorName]*sensorStream, len(followerNames))
	for _, name := range followerNames {
		ss, err := d.openSensor(pumpCtx, name)
		if err != nil {
			cancel()
			return nil, err
		}
		followerSS[name] = ss
	}

	go d.pumpVideo(pumpCtx, leaderSS, leaderQ, errs)
	for _, name := range followerNames {
		go d.pumpSamples(pumpCtx, name, followerSS[name], followerQs[name], errs)
	}

	matcher := match.NewMatcher(string(leaderName), leaderQ, followers, worldPeriod, match.DefaultConfig())
	return &matchedPipeline{matcher: matcher, cancel: cancel, pumpErrs: errs}, nil
}

func (d *Device) openSensor(ctx context.Context, name status.SensorName) (*sensorStream, error) {
	v, err := d.call(ctx, func(d *Device) (any, error) { return d.ensureSensorStream(ctx, name) })
	if err != nil {
		return nil, err
	}
	return v.(*sensorStream), nil
}

func (d *Device) pumpVideo(ctx context.Context, ss *sensorStream, q *match.Queue, errs chan<- error) {
	for {
		s, err := ss.reader.ReadRTP(ctx)
		if err != nil {
			reportPumpErr(ctx, errs, err)
			return
		}
		if s.Missing {
			continue
		}
		aus, err := ss.depk.PushPacket(s.Packet)
		if err != nil {
			reportPumpErr(ctx, errs, fmt.Errorf("simple: reassembling %s frame: %w", ss.name, err))
			return
		}
		for _, au := range aus {
			q.Push(match.Sample{TimestampNS: s.WallClockNS, Payload: matchedVideoFrame{Frame: au, WallClockNS: s.WallClockNS}})
		}
	}
}

func (d *Device) pumpSamples(ctx context.Context, name status.SensorName, ss *sensorStream, q *match.Queue, errs chan<- error) {
	for {
		s, err := ss.reader.ReadRTP(ctx)
		if err != nil {
			reportPumpErr(ctx, errs, err)
			return
		}
		if s.Missing {
			continue
		}
		var payload any
		switch name {
		case status.SensorGaze:
			payload, err = gaze.Decode(s.Packet.Payload)
		case status.SensorEyeEvents:
			payload, err = eyeevents.Decode(s.Packet.Payload, float64(s.WallClockNS)/1e9)
		default:
			err = fmt.Errorf("simple: unsupported follower sensor %q", name)
		}
		if err != nil {
			reportPumpErr(ctx, errs, err)
			return
		}
		q.Push(match.Sample{TimestampNS: s.WallClockNS, Payload: payload})
	}
}

func reportPumpErr(ctx context.Context, errs chan<- error, err error) {
	if ctx.Err() != nil {
		return
	}
	select {
	case errs <- err:
	default:
	}
}

func (p *matchedPipeline) next(ctx context.Context) (*match.Tuple, error) {
	select {
	case err := <-p.pumpErrs:
		return nil, err
	default:
	}
	return p.matcher.Next(ctx)
}

func (p *matchedPipeline) stop() { p.cancel() }

// MatchedSceneGaze pairs one world-camera frame with its temporally
// nearest gaze sample.
type MatchedSceneGaze struct {
	Frame video.AccessUnit
	Gaze  gaze.Sample // nil if no sample fell within the match window
}

// ReceiveMatchedSceneVideoFrameAndGaze blocks for the next scene frame
// matched against the gaze stream, opening both sensors and starting
// their pumps on first use.
func (d *Device) ReceiveMatchedSceneVideoFrameAndGaze(ctx context.Context) (MatchedSceneGaze, error) {
	p, err := d.sceneGazePipeline(ctx)
	if err != nil {
		return MatchedSceneGaze{}, err
	}

	tuple, err := p.next(ctx)
	if err != nil {
		return MatchedSceneGaze{}, err
	}
	out := MatchedSceneGaze{Frame: tuple.Leader.(matchedVideoFrame).Frame}
	if f := tuple.Followers[string(status.SensorGaze)]; f != nil {
		out.Gaze = f.Payload.(gaze.Sample)
	}
	return out, nil
}

func (d *Device) sceneGazePipeline(ctx context.Context) (*matchedPipeline, error) {
	d.matchedMu.Lock()
	defer d.matchedMu.Unlock()
	if d.sceneGazeMatcher == nil {
		p, err := d.startPipeline(ctx, status.SensorWorld, status.SensorGaze)
		if err != nil {
			return nil, err
		}
		d.sceneGazeMatcher = p
	}
	return d.sceneGazeMatcher, nil
}
