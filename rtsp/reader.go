package rtsp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"

	"github.com/pupil-labs/realtime-go/wallclock"
)

// Sample is one decoded RTP packet alongside its mapped wall clock. Missing
// is true when the packet arrived after the grace window elapsed without a
// Sender Report ever being observed; WallClockNS is then zero.
type Sample struct {
	Packet      *rtp.Packet
	WallClockNS int64
	Missing     bool
}

// StreamReader reads one media's RTP stream, mapping each packet's
// timestamp to wall-clock nanoseconds via a background RTCP reader that
// feeds a wallclock.Mapper. The session withholds samples until the first
// Sender Report arrives or GraceWindow elapses.
type StreamReader struct {
	transport   *Transport
	mapper      *wallclock.Mapper
	graceWindow time.Duration
	startedAt   time.Time
	media       string

	rtcpDone chan struct{}
}

// NewStreamReader starts a StreamReader for the session's i-th negotiated
// media.
func (s *Session) NewStreamReader(i int) (*StreamReader, error) {
	m := s.Transport(i)
	if m == nil {
		return nil, fmt.Errorf("rtsp: media index %d out of range", i)
	}
	clockRate := s.Media()[i].ClockRate
	r := &StreamReader{
		transport:   m,
		mapper:      wallclock.NewMapper(clockRate),
		graceWindow: s.cfg.GraceWindow,
		startedAt:   time.Now(),
		media:       s.Media()[i].Type,
		rtcpDone:    make(chan struct{}),
	}
	go r.readRTCPLoop()
	return r, nil
}

// ReadRTP blocks until the next RTP packet arrives or ctx is canceled.
func (r *StreamReader) ReadRTP(ctx context.Context) (Sample, error) {
	for {
		if deadline, ok := ctx.Deadline(); ok {
			r.transport.RTPConn.SetReadDeadline(deadline)
		} else {
			r.transport.RTPConn.SetReadDeadline(time.Time{})
		}

		buf := make([]byte, 65536)
		n, _, err := r.transport.RTPConn.ReadFromUDP(buf)
		if err != nil {
			return Sample{}, fmt.Errorf("rtsp: reading RTP packet: %w", err)
		}

		pkt := &rtp.Packet{}
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			slog.Warn("rtsp: dropping malformed RTP packet", "error", err)
			continue
		}

		wallNS, mapErr := r.mapper.WallClockNS(pkt.Timestamp)
		if mapErr == nil {
			return Sample{Packet: pkt, WallClockNS: wallNS}, nil
		}
		if time.Since(r.startedAt) < r.graceWindow {
			// Withheld: no Sender Report yet and still inside the grace
			// window. Drop silently and wait for the next packet.
			continue
		}
		slog.Warn("rtsp: delivering sample without wall clock", "error", &MissingTimestampWarning{Media: r.media})
		return Sample{Packet: pkt, Missing: true}, nil
	}
}

// Close stops the background RTCP reader.
func (r *StreamReader) Close() {
	close(r.rtcpDone)
	r.transport.RTCPConn.Close()
}

func (r *StreamReader) readRTCPLoop() {
	buf := make([]byte, 65536)
	for {
		select {
		case <-r.rtcpDone:
			return
		default:
		}
		r.transport.RTCPConn.SetReadDeadline(time.Now().Add(time.Second))
		n, _, err := r.transport.RTCPConn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		packets, err := rtcp.Unmarshal(buf[:n])
		if err != nil {
			slog.Warn("rtsp: dropping malformed RTCP packet", "error", err)
			continue
		}
		for _, p := range packets {
			if sr, ok := p.(*rtcp.SenderReport); ok {
				r.mapper.ObserveSenderReport(sr)
			}
		}
	}
}
