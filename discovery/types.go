package discovery

import "strings"

// serviceType is the DNS-SD service the device advertises itself under.
const serviceType = "_http._tcp"

// namePrefix is the first ":"-separated component of a valid instance
// name, "<prefix>:<phone_name>:<phone_id>".
const namePrefix = "PI monitor"

// DiscoveredDevice is an immutable record produced by a browse.
type DiscoveredDevice struct {
	Name       string
	Host       string
	IPv4       string
	Port       int
	TXTRecords map[string]string
}

// PhoneName returns the second ":"-separated component of Name, or "" if
// Name does not have the expected shape.
func (d DiscoveredDevice) PhoneName() string {
	parts := strings.SplitN(d.Name, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// PhoneID returns the third ":"-separated component of Name, or "" if
// Name does not have the expected shape.
func (d DiscoveredDevice) PhoneID() string {
	parts := strings.SplitN(d.Name, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// isValidServiceName reports whether an mDNS instance name matches the
// device's naming pattern.
func isValidServiceName(name string) bool {
	prefix, _, found := strings.Cut(name, ":")
	return found && prefix == namePrefix
}

// EventKind distinguishes an ADDED from a REMOVED live-set event.
type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
)

// Event is one live-set transition: Record is populated for EventAdded,
// Name for EventRemoved.
type Event struct {
	Kind   EventKind
	Record DiscoveredDevice
	Name   string
}
