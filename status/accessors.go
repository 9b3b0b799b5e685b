package status

// direct returns the unique DIRECT-connection sensor entry for name, or
// false if it is not present in the status.
func (s *Status) direct(name SensorName) (Sensor, bool) {
	sensor, ok := s.Sensors[SensorKey{Sensor: name, Connection: ConnectionDirect}]
	return sensor, ok
}

// DirectWorldSensor returns the direct-connection world camera sensor.
func (s *Status) DirectWorldSensor() (Sensor, bool) { return s.direct(SensorWorld) }

// DirectGazeSensor returns the direct-connection gaze sensor.
func (s *Status) DirectGazeSensor() (Sensor, bool) { return s.direct(SensorGaze) }

// DirectEyesSensor returns the direct-connection eye-camera sensor.
func (s *Status) DirectEyesSensor() (Sensor, bool) { return s.direct(SensorEyes) }

// DirectIMUSensor returns the direct-connection IMU sensor.
func (s *Status) DirectIMUSensor() (Sensor, bool) { return s.direct(SensorIMU) }

// DirectEyeEventsSensor returns the direct-connection eye-events sensor.
func (s *Status) DirectEyeEventsSensor() (Sensor, bool) { return s.direct(SensorEyeEvents) }
