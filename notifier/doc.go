// Package notifier mirrors a device's Status over its WebSocket status
// channel: each incoming message is one status.Component, applied to a
// cached snapshot and fanned out to subscribers. The fan-out shape —
// register a channel, publish non-blocking, drop on a full channel
// rather than queue — favors latency over completeness for every
// subscriber.
package notifier
