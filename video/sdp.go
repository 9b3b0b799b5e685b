package video

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseSpropParameterSets decodes an SDP fmtp sprop-parameter-sets value
// (a comma-separated list of base64 NAL units, conventionally SPS then
// PPS) into raw NAL units suitable for NewDepacketizer.
func ParseSpropParameterSets(value string) ([][]byte, error) {
	parts := strings.Split(value, ",")
	nals := make([][]byte, 0, len(parts))
	for _, part := range parts {
		nal, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("video: decoding sprop-parameter-sets entry %q: %w", part, err)
		}
		nals = append(nals, nal)
	}
	return nals, nil
}
