// Package status represents the device's aggregate Status as a tagged union
// of components (Phone, Hardware, Sensor, Recording, NetworkDevice, Template)
// and a pure reducer that applies a single component delta to a Status.
//
// The wire representation of a component is a JSON object {"model": ...,
// "data": ...}. ParseComponent dispatches on "model" and returns a decoded
// Component; unknown models fail with UnknownComponentError rather than
// aborting the caller's update loop.
//
// Status.Apply is a pure reducer: it returns a new Status reflecting the
// delta without mutating the receiver, so that notifier.Notifier can swap an
// atomic snapshot pointer instead of taking a lock around every read.
// control.Client builds a fresh Status from a full status response with
// FromComponents and holds no snapshot.
package status
