package rtsp

import "testing"

const sampleSDP = "v=0\r\n" +
	"o=- 0 0 IN IP4 192.168.1.1\r\n" +
	"s=Pupil Invisible\r\n" +
	"t=0 0\r\n" +
	"m=video 0 RTP/AVP 96\r\n" +
	"a=rtpmap:96 H264/90000\r\n" +
	"a=fmtp:96 packetization-mode=1;sprop-parameter-sets=Z0IAH5WoFAFuQA==,aM48gA==\r\n" +
	"a=control:trackID=0\r\n" +
	"m=application 0 RTP/AVP 97\r\n" +
	"a=rtpmap:97 com.pupillabs.gaze1/8000\r\n" +
	"a=control:trackID=1\r\n"

func TestParseSDP(t *testing.T) {
	descs, err := parseSDP([]byte(sampleSDP))
	if err != nil {
		t.Fatalf("parseSDP: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("len(descs) = %d, want 2", len(descs))
	}

	video := descs[0]
	if video.EncodingName != "H264" || video.ClockRate != 90000 {
		t.Errorf("video = %+v", video)
	}
	if video.FmtpParams["sprop-parameter-sets"] != "Z0IAH5WoFAFuQA==,aM48gA==" {
		t.Errorf("fmtp = %+v", video.FmtpParams)
	}

	gaze := descs[1]
	if gaze.EncodingName != "com.pupillabs.gaze1" || gaze.ClockRate != 8000 {
		t.Errorf("gaze = %+v", gaze)
	}
}

func TestParseServerPorts(t *testing.T) {
	rtp, rtcp, err := parseServerPorts("RTP/AVP;unicast;client_port=6000-6001;server_port=7000-7001")
	if err != nil {
		t.Fatalf("parseServerPorts: %v", err)
	}
	if rtp != 7000 || rtcp != 7001 {
		t.Errorf("got (%d, %d), want (7000, 7001)", rtp, rtcp)
	}
}

func TestSessionTimeoutFromHeader(t *testing.T) {
	got := sessionTimeoutFromHeader("47112344;timeout=60")
	if got.Seconds() != 60 {
		t.Errorf("got %v, want 60s", got)
	}
}
