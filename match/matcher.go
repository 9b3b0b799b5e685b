package match

import (
	"context"
	"time"
)

// FollowerConfig names one follower stream and its matching window W: the
// maximum |t_follower - t_leader| the matcher will accept, and the
// minimum lookahead it requires before picking a match. Window defaults
// to the leader's nominal period when left zero.
type FollowerConfig struct {
	Name   string
	Queue  *Queue
	Window time.Duration
}

// FollowedSample is a follower's contribution to a fused Tuple.
type FollowedSample struct {
	TimestampNS int64
	Payload     any
}

// Tuple is one fused emission: the leader sample plus, per follower
// name, either its matched sample or nil if none qualified in time.
type Tuple struct {
	LeaderTimestampNS int64
	Leader            any
	Followers         map[string]*FollowedSample
}

// Matcher fuses a leader Queue against a fixed set of follower Queues.
type Matcher struct {
	leaderName string
	leader     *Queue
	followers  []FollowerConfig
	waitWindow time.Duration
	poll       time.Duration
}

// Config controls a Matcher's wait behavior.
type Config struct {
	// WaitWindow bounds how long Next waits for a follower to produce a
	// qualifying sample before emitting that follower as nil. Defaults
	// to 1 second.
	WaitWindow time.Duration
	// PollInterval is how often Next re-checks a follower queue while
	// waiting. Defaults to 2ms.
	PollInterval time.Duration
}

// DefaultConfig returns a 1 second wait window and a 2ms poll interval.
func DefaultConfig() Config {
	return Config{WaitWindow: time.Second, PollInterval: 2 * time.Millisecond}
}

// NewMatcher returns a Matcher draining leader and followers. A
// FollowerConfig with a zero Window inherits leaderPeriod.
func NewMatcher(leaderName string, leader *Queue, followers []FollowerConfig, leaderPeriod time.Duration, cfg Config) *Matcher {
	if cfg.WaitWindow <= 0 {
		cfg.WaitWindow = time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Millisecond
	}
	resolved := make([]FollowerConfig, len(followers))
	for i, f := range followers {
		if f.Window <= 0 {
			f.Window = leaderPeriod
		}
		resolved[i] = f
	}
	return &Matcher{
		leaderName: leaderName,
		leader:     leader,
		followers:  resolved,
		waitWindow: cfg.WaitWindow,
		poll:       cfg.PollInterval,
	}
}

// Next blocks until the leader queue yields a sample, matches every
// follower against it, and returns the fused Tuple. It never drops a
// leader sample: Next only returns once a leader sample has been popped.
func (m *Matcher) Next(ctx context.Context) (*Tuple, error) {
	leaderSample, err := m.waitForLeader(ctx)
	if err != nil {
		return nil, err
	}

	tuple := &Tuple{
		LeaderTimestampNS: leaderSample.TimestampNS,
		Leader:            leaderSample.Payload,
		Followers:         make(map[string]*FollowedSample, len(m.followers)),
	}
	for _, f := range m.followers {
		matched, err := m.matchFollower(ctx, f, leaderSample.TimestampNS)
		if err != nil {
			return nil, err
		}
		tuple.Followers[f.Name] = matched
	}
	return tuple, nil
}

func (m *Matcher) waitForLeader(ctx context.Context) (Sample, error) {
	for {
		if s, ok := m.leader.pop(); ok {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return Sample{}, ctx.Err()
		case <-time.After(m.poll):
		}
	}
}

// matchFollower waits up to the matcher's wait window for f's queue to
// produce a sample timestamped at or after leaderTS-f.Window, then picks
// the closest buffered sample to leaderTS. A match farther than f.Window
// from leaderTS is reported as nil, same as a window that timed out
// empty.
func (m *Matcher) matchFollower(ctx context.Context, f FollowerConfig, leaderTS int64) (*FollowedSample, error) {
	threshold := leaderTS - f.Window.Nanoseconds()
	deadline := time.Now().Add(m.waitWindow)

	for {
		if f.Queue.hasAtOrAfter(threshold) {
			best, ok := f.Queue.bestMatch(leaderTS)
			f.Queue.discardBefore(threshold)
			if !ok {
				return nil, nil
			}
			if absInt64(best.TimestampNS-leaderTS) > f.Window.Nanoseconds() {
				return nil, nil
			}
			return &FollowedSample{TimestampNS: best.TimestampNS, Payload: best.Payload}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.poll):
		}
	}
}
