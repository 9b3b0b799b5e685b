package wallclock

import (
	"sync"

	"github.com/pion/rtcp"
)

const ntpEpochOffsetSeconds = 2208988800 // 1900-01-01 to 1970-01-01, RFC 5905

// Mapper maps RTP timestamps for a single media clock onto Unix wall-clock
// nanoseconds, keyed off the most recently observed RTCP Sender Report.
//
// A Mapper is not safe for use by multiple goroutines without its own
// synchronization beyond ObserveSenderReport/WallClockNS, which do lock
// internally; ObserveSenderReport and WallClockNS share one extender so the
// two input streams (RTCP and RTP) must be fed in roughly arrival order.
type Mapper struct {
	clockRate uint32

	mu      sync.Mutex
	ext     extender
	haveSR  bool
	srExtRTP int64
	srNTPNS  int64
}

// NewMapper returns a Mapper for a stream sampled at clockRate Hz (90000 for
// the video stream, 8000 for Pupil Labs's RTP clock).
func NewMapper(clockRate uint32) *Mapper {
	return &Mapper{clockRate: clockRate}
}

// ObserveSenderReport records a fresh anchor point from an RTCP Sender
// Report carried on the session's RTCP channel.
func (m *Mapper) ObserveSenderReport(sr *rtcp.SenderReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.srExtRTP = m.ext.extend(sr.RTPTime)
	m.srNTPNS = ntpToUnixNS(sr.NTPTime)
	m.haveSR = true
}

// WallClockNS returns the Unix nanosecond timestamp corresponding to rtpTS,
// extrapolated from the last observed Sender Report.
func (m *Mapper) WallClockNS(rtpTS uint32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.haveSR {
		return 0, NoSenderReportError{}
	}
	extended := m.ext.extend(rtpTS)
	deltaTS := extended - m.srExtRTP
	deltaNS := int64(float64(deltaTS) * 1e9 / float64(m.clockRate))
	return m.srNTPNS + deltaNS, nil
}

// ntpToUnixNS converts a 64-bit NTP timestamp (32.32 fixed
// point seconds since 1900) into Unix epoch nanoseconds.
func ntpToUnixNS(ntp uint64) int64 {
	seconds := int64(ntp>>32) - ntpEpochOffsetSeconds
	frac := float64(ntp&0xffffffff) / (1 << 32)
	return seconds*1e9 + int64(frac*1e9)
}
