package video

import (
	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
	"github.com/pion/rtp"
)

// fuState tracks an in-progress FU-A fragmentation.
type fuState struct {
	active    bool
	nalHeader byte
	buf       []byte
}

// Depacketizer reassembles Access Units from a single RTP media stream. It
// is not safe for concurrent use.
type Depacketizer struct {
	paramSets   [][]byte
	headEmitted bool

	haveLastSeq bool
	lastSeq     uint16

	auNALs    [][]byte
	auTS      uint32
	haveAU    bool
	fu        fuState
}

// NewDepacketizer returns a Depacketizer that emits paramSets (typically
// SPS then PPS, decoded from sprop-parameter-sets) as the first output
// Access Unit.
func NewDepacketizer(paramSets [][]byte) *Depacketizer {
	return &Depacketizer{paramSets: paramSets}
}

// PushPacket feeds one RTP packet and returns zero or more completed
// Access Units (zero until a marker-bit packet completes one; the
// parameter-set head, if any, is returned alongside the first completed
// frame).
func (d *Depacketizer) PushPacket(pkt *rtp.Packet) ([]AccessUnit, error) {
	if d.haveLastSeq && pkt.SequenceNumber != d.lastSeq+1 {
		d.resetAU()
		d.haveLastSeq = true
		d.lastSeq = pkt.SequenceNumber
		return nil, &NalReassemblyError{Reason: "sequence number gap"}
	}
	d.haveLastSeq = true
	d.lastSeq = pkt.SequenceNumber

	if d.haveAU && pkt.Timestamp != d.auTS {
		// Started a new AU without ever observing the previous AU's
		// marker bit; drop the stale partial AU and continue.
		d.resetAU()
	}
	d.auTS = pkt.Timestamp
	d.haveAU = true

	if len(pkt.Payload) == 0 {
		d.resetAU()
		return nil, &NalReassemblyError{Reason: "empty RTP payload"}
	}

	nalType := h264.NALUType(pkt.Payload[0] & 0x1f)
	switch nalType {
	case h264.NALUTypeSTAPA:
		if err := d.consumeSTAPA(pkt.Payload[1:]); err != nil {
			d.resetAU()
			return nil, err
		}
	case h264.NALUTypeFUA:
		if err := d.consumeFUA(pkt.Payload); err != nil {
			d.resetAU()
			return nil, err
		}
	default:
		// Single NAL unit packetization (types 1-23): payload is the NAL
		// unit verbatim.
		nal := make([]byte, len(pkt.Payload))
		copy(nal, pkt.Payload)
		d.auNALs = append(d.auNALs, nal)
	}

	if !pkt.Marker {
		return nil, nil
	}

	out := make([]AccessUnit, 0, 2)
	if !d.headEmitted && len(d.paramSets) > 0 {
		out = append(out, AccessUnit{NALs: d.paramSets, Timestamp: pkt.Timestamp})
	}
	d.headEmitted = true
	out = append(out, AccessUnit{NALs: d.auNALs, Timestamp: d.auTS})
	d.resetAU()
	return out, nil
}

func (d *Depacketizer) resetAU() {
	d.auNALs = nil
	d.haveAU = false
	d.fu = fuState{}
}

// consumeSTAPA splits a STAP-A aggregation payload (the bytes after the
// STAP-A indicator byte) into its constituent 2-byte-length-prefixed NAL
// units.
func (d *Depacketizer) consumeSTAPA(body []byte) error {
	for len(body) > 0 {
		if len(body) < 2 {
			return &NalReassemblyError{Reason: "truncated STAP-A length prefix"}
		}
		nalLen := int(body[0])<<8 | int(body[1])
		body = body[2:]
		if nalLen > len(body) {
			return &NalReassemblyError{Reason: "truncated STAP-A NAL unit"}
		}
		nal := make([]byte, nalLen)
		copy(nal, body[:nalLen])
		d.auNALs = append(d.auNALs, nal)
		body = body[nalLen:]
	}
	return nil
}

// consumeFUA feeds one FU-A fragment (the full RTP payload, FU indicator
// included) into the in-progress fragmentation.
func (d *Depacketizer) consumeFUA(payload []byte) error {
	if len(payload) < 2 {
		return &NalReassemblyError{Reason: "truncated FU-A header"}
	}
	indicator := payload[0]
	header := payload[1]
	start := header&0x80 != 0
	end := header&0x40 != 0
	fragment := payload[2:]

	if start {
		d.fu = fuState{
			active:    true,
			nalHeader: (indicator & 0xe0) | (header & 0x1f),
			buf:       append([]byte{}, fragment...),
		}
	} else {
		if !d.fu.active {
			return &NalReassemblyError{Reason: "FU-A continuation without start"}
		}
		d.fu.buf = append(d.fu.buf, fragment...)
	}

	if end {
		if !d.fu.active {
			return &NalReassemblyError{Reason: "FU-A end without start"}
		}
		nal := make([]byte, 0, len(d.fu.buf)+1)
		nal = append(nal, d.fu.nalHeader)
		nal = append(nal, d.fu.buf...)
		d.auNALs = append(d.auNALs, nal)
		d.fu = fuState{}
	}
	return nil
}
