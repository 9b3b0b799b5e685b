// Package video reassembles H.264 Access Units from RTP packets per
// RFC 6184, for the packetization modes the device emits: single NAL
// unit, FU-A fragmentation, and STAP-A aggregation.
//
// A Depacketizer is payload-agnostic about everything upstream of the RTP
// layer; SPS/PPS extracted from the SDP fmtp sprop-parameter-sets are
// supplied at construction and emitted as a synthetic Access Unit before
// the first in-band frame, so a downstream decoder can initialize without
// waiting on in-band parameter sets.
package video
