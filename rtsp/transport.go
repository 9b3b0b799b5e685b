package rtsp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Transport is the negotiated RTP/RTCP UDP socket pair for one media.
type Transport struct {
	RTPConn  *net.UDPConn
	RTCPConn *net.UDPConn

	ClientRTPPort, ClientRTCPPort int
	ServerRTPPort, ServerRTCPPort int
}

func (t *Transport) close() {
	if t.RTPConn != nil {
		t.RTPConn.Close()
	}
	if t.RTCPConn != nil {
		t.RTCPConn.Close()
	}
}

// openTransport allocates a local RTP/RTCP UDP port pair (RTP even,
// RTCP = RTP+1, per RFC 3550 §11) bound on all IPv4 interfaces; deviceHost
// is not used.
func openTransport(deviceHost string) (*Transport, error) {
	for attempt := 0; attempt < 20; attempt++ {
		rtpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
		if err != nil {
			return nil, fmt.Errorf("rtsp: allocating RTP socket: %w", err)
		}
		rtpPort := rtpConn.LocalAddr().(*net.UDPAddr).Port
		if rtpPort%2 != 0 {
			rtpConn.Close()
			continue
		}
		rtcpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: rtpPort + 1})
		if err != nil {
			rtpConn.Close()
			continue
		}
		return &Transport{
			RTPConn:       rtpConn,
			RTCPConn:      rtcpConn,
			ClientRTPPort: rtpPort,
			ClientRTCPPort: rtpPort + 1,
		}, nil
	}
	return nil, fmt.Errorf("rtsp: could not allocate an even RTP/RTCP port pair after 20 attempts")
}

// setupHeader builds the Transport request header for SETUP.
func setupHeader(t *Transport) string {
	return fmt.Sprintf("RTP/AVP;unicast;client_port=%d-%d", t.ClientRTPPort, t.ClientRTCPPort)
}

// parseServerPorts extracts server_port=X-Y from a SETUP response's
// Transport header.
func parseServerPorts(transportHeader string) (rtpPort, rtcpPort int, err error) {
	for _, field := range strings.Split(transportHeader, ";") {
		field = strings.TrimSpace(field)
		if !strings.HasPrefix(field, "server_port=") {
			continue
		}
		ports := strings.SplitN(strings.TrimPrefix(field, "server_port="), "-", 2)
		rtpPort, err = strconv.Atoi(ports[0])
		if err != nil {
			return 0, 0, fmt.Errorf("rtsp: parsing server_port %q: %w", field, err)
		}
		if len(ports) == 2 {
			rtcpPort, _ = strconv.Atoi(ports[1])
		}
		return rtpPort, rtcpPort, nil
	}
	return 0, 0, fmt.Errorf("rtsp: Transport header %q has no server_port", transportHeader)
}
