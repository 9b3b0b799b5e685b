package rtsp

import (
	"strconv"
	"strings"

	"github.com/pion/sdp/v3"
)

// MediaDescription is the subset of an SDP media section this session
// cares about: enough to negotiate transport and hand the right decoder to
// the consumer.
type MediaDescription struct {
	Type         string // "video", "audio", or an application-defined name
	PayloadType  uint8
	EncodingName string
	ClockRate    uint32
	ControlURI   string
	FmtpParams   map[string]string
}

// parseSDP extracts one MediaDescription per media section whose first
// format is a numeric payload type. EncodingName and ClockRate come from the
// section's rtpmap attribute (which the device advertises for every stream,
// including the custom gaze/imu/eventlist encodings) and stay empty when a
// section has none.
func parseSDP(body []byte) ([]MediaDescription, error) {
	var desc sdp.SessionDescription
	if err := desc.Unmarshal(body); err != nil {
		return nil, err
	}

	var out []MediaDescription
	for _, m := range desc.MediaDescriptions {
		if len(m.MediaName.Formats) == 0 {
			continue
		}
		pt, err := strconv.Atoi(m.MediaName.Formats[0])
		if err != nil {
			continue
		}
		md := MediaDescription{
			Type:        m.MediaName.Media,
			PayloadType: uint8(pt),
			FmtpParams:  map[string]string{},
		}
		for _, attr := range m.Attributes {
			switch attr.Key {
			case "rtpmap":
				name, rate := parseRtpmap(attr.Value)
				md.EncodingName = name
				md.ClockRate = rate
			case "fmtp":
				for k, v := range parseFmtp(attr.Value) {
					md.FmtpParams[k] = v
				}
			case "control":
				md.ControlURI = attr.Value
			}
		}
		out = append(out, md)
	}
	return out, nil
}

// parseRtpmap parses "96 com.pupillabs.gaze1/90000" into ("com.pupillabs.gaze1", 90000).
func parseRtpmap(value string) (string, uint32) {
	fields := strings.SplitN(value, " ", 2)
	if len(fields) != 2 {
		return "", 0
	}
	nameRate := strings.SplitN(fields[1], "/", 2)
	name := nameRate[0]
	var rate uint64
	if len(nameRate) == 2 {
		rate, _ = strconv.ParseUint(nameRate[1], 10, 32)
	}
	return name, uint32(rate)
}

// parseFmtp parses "96 sprop-parameter-sets=AAA==,BBB==;packetization-mode=1"
// into a key/value map, dropping the leading payload type token.
func parseFmtp(value string) map[string]string {
	out := map[string]string{}
	fields := strings.SplitN(value, " ", 2)
	if len(fields) != 2 {
		return out
	}
	for _, kv := range strings.Split(fields[1], ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		} else {
			out[parts[0]] = ""
		}
	}
	return out
}
