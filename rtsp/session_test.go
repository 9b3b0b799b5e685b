package rtsp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

// fakeDevice is a minimal RTSP/1.0 responder good enough to exercise
// Session's control-plane handshake: OPTIONS, DESCRIBE, SETUP, PLAY,
// GET_PARAMETER, TEARDOWN.
func fakeDevice(t *testing.T, sdp string) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	done := make(chan struct{})
	go func() {
		nc, err := ln.Accept()
		if err != nil {
			return
		}
		defer nc.Close()
		tp := textproto.NewReader(bufio.NewReader(nc))
		for {
			select {
			case <-done:
				return
			default:
			}
			reqLine, err := tp.ReadLine()
			if err != nil {
				return
			}
			fields := strings.Fields(reqLine)
			if len(fields) < 1 {
				return
			}
			method := fields[0]
			headers, err := tp.ReadMIMEHeader()
			if err != nil {
				return
			}
			cseq := headers.Get("Cseq")

			switch method {
			case "OPTIONS", "PLAY", "GET_PARAMETER":
				fmt.Fprintf(nc, "RTSP/1.0 200 OK\r\nCSeq: %s\r\nSession: 12345678;timeout=60\r\n\r\n", cseq)
			case "DESCRIBE":
				fmt.Fprintf(nc, "RTSP/1.0 200 OK\r\nCSeq: %s\r\nContent-Type: application/sdp\r\nContent-Length: %d\r\n\r\n%s", cseq, len(sdp), sdp)
			case "SETUP":
				fmt.Fprintf(nc, "RTSP/1.0 200 OK\r\nCSeq: %s\r\nSession: 12345678;timeout=60\r\nTransport: RTP/AVP;unicast;client_port=6000-6001;server_port=7000-7001\r\n\r\n", cseq)
			case "TEARDOWN":
				fmt.Fprintf(nc, "RTSP/1.0 200 OK\r\nCSeq: %s\r\n\r\n", cseq)
				return
			default:
				fmt.Fprintf(nc, "RTSP/1.0 501 Not Implemented\r\nCSeq: %s\r\n\r\n", cseq)
			}
		}
	}()
	return ln.Addr().String(), func() {
		close(done)
		ln.Close()
	}
}

func TestSessionOpenNegotiatesMediaAndTearsDown(t *testing.T) {
	addr, stop := fakeDevice(t, sampleSDP)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := Open(ctx, fmt.Sprintf("rtsp://%s/", addr), DefaultConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	media := sess.Media()
	if len(media) != 2 {
		t.Fatalf("len(media) = %d, want 2", len(media))
	}
	if media[0].EncodingName != "H264" || media[1].EncodingName != "com.pupillabs.gaze1" {
		t.Fatalf("media = %+v", media)
	}

	transport := sess.Transport(0)
	if transport == nil || transport.ServerRTPPort != 7000 {
		t.Fatalf("transport = %+v", transport)
	}

	if err := sess.Teardown(ctx); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
}
