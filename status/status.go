package status

// Status is the aggregate device state: exactly one Phone and one Hardware,
// a set of Sensors keyed by (sensor, connection), at most one active
// Recording, an optional set of NetworkDevice peers, and the currently
// selected Template.
//
// Status is treated as immutable: Apply returns a new Status rather than
// mutating the receiver, so a holder of *Status can swap an atomic pointer
// on update while readers keep observing a consistent snapshot.
type Status struct {
	Phone          Phone
	Hardware       Hardware
	Sensors        map[SensorKey]Sensor
	Recording      *Recording
	NetworkDevices map[string]NetworkDevice
	Template       *Template
	APIVersion     string
}

// New returns an empty Status with initialized collections.
func New() *Status {
	return &Status{
		Sensors:        make(map[SensorKey]Sensor),
		NetworkDevices: make(map[string]NetworkDevice),
	}
}

// FromComponents builds a Status from a slice of already-decoded
// components, e.g. the "result" array of a GET /api/status response.
// Components with a model ParseComponent could not decode should be
// omitted by the caller before calling FromComponents.
func FromComponents(components []Component) *Status {
	s := New()
	for _, c := range components {
		s = s.Apply(c)
	}
	return s
}

// Clone returns a shallow copy of s with independently mutable maps, used
// internally by Apply to avoid mutating a Status another goroutine may
// still be reading.
func (s *Status) Clone() *Status {
	clone := &Status{
		Phone:      s.Phone,
		Hardware:   s.Hardware,
		Template:   s.Template,
		APIVersion: s.APIVersion,
	}
	if s.Recording != nil {
		rec := *s.Recording
		clone.Recording = &rec
	}
	clone.Sensors = make(map[SensorKey]Sensor, len(s.Sensors))
	for k, v := range s.Sensors {
		clone.Sensors[k] = v
	}
	clone.NetworkDevices = make(map[string]NetworkDevice, len(s.NetworkDevices))
	for k, v := range s.NetworkDevices {
		clone.NetworkDevices[k] = v
	}
	return clone
}

// Apply is the pure component reducer for incoming status deltas:
//
//   - Phone/Hardware overwrite the singleton field.
//   - Sensor upserts by (sensor, connection); a disconnect never removes
//     the entry, it is kept marked disconnected.
//   - Recording with action in {STOP,SAVE,CANCEL} clears the active
//     recording; any other action sets it.
//   - NetworkDevice upserts in the peer set, keyed by Name.
//   - Template overwrites.
func (s *Status) Apply(c Component) *Status {
	next := s.Clone()
	switch v := c.(type) {
	case Phone:
		next.Phone = v
	case Hardware:
		next.Hardware = v
	case Sensor:
		next.Sensors[v.Key()] = v
	case Recording:
		switch v.Action {
		case RecordingStop, RecordingSave, RecordingCancel:
			next.Recording = nil
		default:
			rec := v
			next.Recording = &rec
		}
	case NetworkDevice:
		next.NetworkDevices[v.Name] = v
	case Template:
		t := v
		next.Template = &t
	}
	return next
}
