// Package simple is a blocking, auto-connecting facade over control,
// notifier, rtsp, and match: status mirroring runs as a background task
// with reconnect-with-backoff, and RTSP sessions per sensor are opened
// lazily on first use by a dedicated background worker goroutine that
// owns the session map. Every exported method is synchronous: calls that
// open a sensor session post work to that worker and block on its result,
// while status accessors and control commands run on the caller's
// goroutine.
package simple
