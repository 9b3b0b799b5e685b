package timeecho

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

// Config controls an offset estimation run.
type Config struct {
	Rounds        int
	RoundDeadline time.Duration
}

// DefaultConfig returns 100 rounds, 1 second per round.
func DefaultConfig() Config {
	return Config{
		Rounds:        100,
		RoundDeadline: time.Second,
	}
}

// Round is a single request/response exchange.
type Round struct {
	RTTNS    int64
	OffsetNS int64
}

// Estimate summarizes a completed run of rounds.
type Estimate struct {
	MeanOffsetNS float64
	MeanRTTNS    float64
	Rounds       []Round
}

// EstimateOffset performs cfg.Rounds Time Echo exchanges against
// host:port and returns the aggregated offset/RTT estimate.
//
// Per round: t0 is recorded, an 8-byte big-endian t0 (nanoseconds since the
// Unix epoch) is sent, the device echoes an 8-byte big-endian t_device, t1
// is recorded on receipt. rtt = t1-t0, offset = t_device - (t0 + rtt/2).
func EstimateOffset(ctx context.Context, host string, port int, cfg Config) (*Estimate, error) {
	if port == 0 {
		return nil, ProtocolNotSupportedError{}
	}
	if cfg.Rounds <= 0 {
		cfg = DefaultConfig()
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("timeecho: resolving %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("timeecho: dialing %s: %w", addr, err)
	}
	defer conn.Close()

	rounds := make([]Round, 0, cfg.Rounds)
	var sumOffset, sumRTT int64

	for i := 0; i < cfg.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		round, err := runRound(conn, cfg.RoundDeadline, i)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
		sumOffset += round.OffsetNS
		sumRTT += round.RTTNS
	}

	n := int64(len(rounds))
	return &Estimate{
		MeanOffsetNS: float64(sumOffset) / float64(n),
		MeanRTTNS:    float64(sumRTT) / float64(n),
		Rounds:       rounds,
	}, nil
}

func runRound(conn *net.UDPConn, deadline time.Duration, roundIdx int) (Round, error) {
	t0 := time.Now().UnixNano()

	var req [8]byte
	binary.BigEndian.PutUint64(req[:], uint64(t0))

	if err := conn.SetDeadline(time.Now().Add(deadline)); err != nil {
		return Round{}, fmt.Errorf("timeecho: setting deadline: %w", err)
	}
	if _, err := conn.Write(req[:]); err != nil {
		return Round{}, fmt.Errorf("timeecho: sending request: %w", err)
	}

	var resp [8]byte
	n, err := conn.Read(resp[:])
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return Round{}, &TimeoutError{Round: roundIdx}
		}
		return Round{}, fmt.Errorf("timeecho: reading response: %w", err)
	}
	t1 := time.Now().UnixNano()
	if n != 8 {
		return Round{}, fmt.Errorf("timeecho: response of length %d, want 8", n)
	}

	tDevice := int64(binary.BigEndian.Uint64(resp[:]))
	rtt := t1 - t0
	offset := tDevice - (t0 + rtt/2)

	return Round{RTTNS: rtt, OffsetNS: offset}, nil
}
