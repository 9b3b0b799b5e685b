// Package discovery finds Pupil Labs Realtime API devices on the local
// network over mDNS/DNS-SD: browses "_http._tcp" for
// instances named "<prefix>:<phone_name>:<phone_id>", maintains a live
// set with ADDED/REMOVED events derived from each entry's advertised TTL,
// and offers a one-shot "first device" convenience on top.
package discovery
