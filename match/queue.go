package match

import "sync"

// Sample is one timestamped item pushed into a Queue. Payload carries
// whatever typed sample the producing depacketizer emitted (gaze.Sample,
// video.AccessUnit, imu.Sample, eyeevents.Event).
type Sample struct {
	TimestampNS int64
	Payload     any
}

// Queue is a bounded, timestamp-ordered buffer fed by one producer and
// drained by a Matcher with peek-only semantics. It assumes its producer
// delivers non-decreasing timestamps; Push appends without re-sorting.
type Queue struct {
	name  string
	depth int

	mu    sync.Mutex
	items []Sample
}

// NewQueue returns an empty Queue named name, evicting its oldest sample
// once it holds more than depth.
func NewQueue(name string, depth int) *Queue {
	return &Queue{name: name, depth: depth}
}

// Push appends s. If the queue was already at depth, the oldest sample is
// evicted and Push returns *Overflow alongside the successful enqueue —
// backpressure favors keeping the most recent data.
func (q *Queue) Push(s Sample) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, s)
	if len(q.items) > q.depth {
		q.items = q.items[1:]
		return &Overflow{Stream: q.name, Depth: q.depth}
	}
	return nil
}

// Len reports the current number of buffered samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// hasAtOrAfter reports whether any buffered sample has TimestampNS >= ts.
func (q *Queue) hasAtOrAfter(ts int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range q.items {
		if it.TimestampNS >= ts {
			return true
		}
	}
	return false
}

// bestMatch returns the buffered sample minimizing |TimestampNS-target|,
// ties broken by the later timestamp, without removing it.
func (q *Queue) bestMatch(target int64) (Sample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Sample{}, false
	}
	best := q.items[0]
	bestDelta := absInt64(best.TimestampNS - target)
	for _, it := range q.items[1:] {
		delta := absInt64(it.TimestampNS - target)
		if delta < bestDelta || (delta == bestDelta && it.TimestampNS > best.TimestampNS) {
			best, bestDelta = it, delta
		}
	}
	return best, true
}

// pop removes and returns the oldest sample.
func (q *Queue) pop() (Sample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Sample{}, false
	}
	s := q.items[0]
	q.items = q.items[1:]
	return s, true
}

// discardBefore drops every buffered sample with TimestampNS < threshold;
// they can no longer be the best match for any future leader sample.
func (q *Queue) discardBefore(threshold int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := 0
	for i < len(q.items) && q.items[i].TimestampNS < threshold {
		i++
	}
	q.items = q.items[i:]
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
