// Package rtsp implements the RTSP 1.0 session lifecycle the device
// speaks: OPTIONS, DESCRIBE, SETUP, PLAY, TEARDOWN, and periodic
// GET_PARAMETER keepalives. No RTSP client library appears
// anywhere in this repo's dependency neighborhood, so the text-based
// request/response framing is built directly on net/textproto, the same
// package net/http itself uses for HTTP/1.x framing; SDP bodies are parsed
// with pion/sdp, and the RTP/RTCP transport pair with pion/rtp and
// pion/rtcp.
package rtsp
