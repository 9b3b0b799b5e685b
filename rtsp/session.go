package rtsp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config controls session-level timing knobs.
type Config struct {
	// GraceWindow bounds how long samples are withheld waiting for the
	// first RTCP Sender Report before being tagged with no wall clock.
	GraceWindow time.Duration
	// DefaultSessionTimeout is used when the server's SETUP response
	// omits a Session header timeout parameter.
	DefaultSessionTimeout time.Duration
}

// DefaultConfig returns a 1s grace window and a 60s RTSP session
// timeout (so GET_PARAMETER keepalives fire at 40s).
func DefaultConfig() Config {
	return Config{GraceWindow: time.Second, DefaultSessionTimeout: 60 * time.Second}
}

// Session is one open RTSP session against a single device endpoint,
// exposing its negotiated media and their RTP/RTCP transports.
type Session struct {
	cfg Config

	conn       *conn
	baseURL    *url.URL
	deviceHost string

	mu    sync.Mutex
	media []negotiatedMedia

	sessionTimeout time.Duration
	keepaliveDone  chan struct{}
	keepaliveWG    sync.WaitGroup

	closed bool
}

type negotiatedMedia struct {
	Description MediaDescription
	Transport   *Transport
}

// Open performs OPTIONS, DESCRIBE, SETUP (for every media section), and
// PLAY against rawURL, then starts the GET_PARAMETER keepalive loop.
func Open(ctx context.Context, rawURL string, cfg Config) (*Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rtsp: parsing URL %q: %w", rawURL, err)
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "554"
	}

	c, err := dialConn(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, conn: c, baseURL: u, deviceHost: host, sessionTimeout: cfg.DefaultSessionTimeout}

	if _, _, _, err := c.request(ctx, "OPTIONS", rawURL, nil, nil); err != nil {
		c.close()
		return nil, err
	}

	_, descHeaders, descBody, err := c.request(ctx, "DESCRIBE", rawURL, map[string]string{"Accept": "application/sdp"}, nil)
	if err != nil {
		c.close()
		return nil, err
	}
	_ = descHeaders

	descs, err := parseSDP(descBody)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("rtsp: parsing SDP: %w", err)
	}

	for _, md := range descs {
		transport, err := openTransport(host)
		if err != nil {
			s.closeMediaAndConn()
			return nil, err
		}
		setupURI := rawURL
		if md.ControlURI != "" {
			setupURI = resolveControlURI(rawURL, md.ControlURI)
		}
		_, setupHeaders, _, err := c.request(ctx, "SETUP", setupURI, map[string]string{"Transport": setupHeader(transport)}, nil)
		if err != nil {
			transport.close()
			s.closeMediaAndConn()
			return nil, err
		}
		rtpPort, rtcpPort, err := parseServerPorts(setupHeaders.Get("Transport"))
		if err != nil {
			transport.close()
			s.closeMediaAndConn()
			return nil, err
		}
		transport.ServerRTPPort = rtpPort
		transport.ServerRTCPPort = rtcpPort
		if err := connectTransport(transport, host); err != nil {
			transport.close()
			s.closeMediaAndConn()
			return nil, err
		}
		if timeout := sessionTimeoutFromHeader(setupHeaders.Get("Session")); timeout > 0 {
			s.sessionTimeout = timeout
		}
		s.media = append(s.media, negotiatedMedia{Description: md, Transport: transport})
	}

	if _, _, _, err := c.request(ctx, "PLAY", rawURL, map[string]string{"Range": "npt=0.000-"}, nil); err != nil {
		s.closeMediaAndConn()
		return nil, err
	}

	s.startKeepalive(rawURL)
	return s, nil
}

// Media returns the negotiated media descriptions, in SDP order.
func (s *Session) Media() []MediaDescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MediaDescription, len(s.media))
	for i, m := range s.media {
		out[i] = m.Description
	}
	return out
}

// Transport returns the RTP/RTCP socket pair for the i-th negotiated
// media, in SDP order.
func (s *Session) Transport(i int) *Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.media) {
		return nil
	}
	return s.media[i].Transport
}

// Teardown stops keepalives, sends TEARDOWN, and releases every socket.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.keepaliveDone != nil {
		close(s.keepaliveDone)
		s.keepaliveWG.Wait()
	}

	_, _, _, err := s.conn.request(ctx, "TEARDOWN", s.baseURL.String(), nil, nil)
	s.closeMediaAndConn()
	return err
}

func (s *Session) closeMediaAndConn() {
	s.mu.Lock()
	for _, m := range s.media {
		m.Transport.close()
	}
	s.mu.Unlock()
	s.conn.close()
}

// startKeepalive issues GET_PARAMETER at 2/3 of the negotiated session
// timeout until Teardown is called.
func (s *Session) startKeepalive(rawURL string) {
	s.keepaliveDone = make(chan struct{})
	interval := s.sessionTimeout * 2 / 3
	if interval <= 0 {
		interval = 40 * time.Second
	}
	s.keepaliveWG.Add(1)
	go func() {
		defer s.keepaliveWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.keepaliveDone:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_, _, _, err := s.conn.request(ctx, "GET_PARAMETER", rawURL, nil, nil)
				cancel()
				if err != nil {
					slog.Warn("rtsp: keepalive failed", "error", err)
				}
			}
		}
	}()
}

// connectTransport resolves the device host once (failing fast if it's
// unreachable) and sizes the RTP socket's read buffer for sustained video
// throughput. The sockets stay unconnected: the device, not this client,
// initiates each UDP datagram.
func connectTransport(t *Transport, host string) error {
	if net.ParseIP(host) == nil {
		if _, err := net.LookupIP(host); err != nil {
			return fmt.Errorf("rtsp: resolving device host %q: %w", host, err)
		}
	}
	if err := t.RTPConn.SetReadBuffer(1 << 20); err != nil {
		slog.Warn("rtsp: setting RTP read buffer", "error", err)
	}
	return nil
}

func resolveControlURI(baseURL, control string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return control
	}
	ref, err := url.Parse(control)
	if err != nil {
		return control
	}
	return base.ResolveReference(ref).String()
}

func sessionTimeoutFromHeader(value string) time.Duration {
	for _, field := range strings.Split(value, ";") {
		field = strings.TrimSpace(field)
		if secs, ok := strings.CutPrefix(field, "timeout="); ok {
			if n, err := strconv.Atoi(secs); err == nil {
				return time.Duration(n) * time.Second
			}
		}
	}
	return 0
}
