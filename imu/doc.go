// Package imu decodes the com.pupillabs.imu1 RTP payload: accelerometer,
// gyroscope, and orientation quaternion samples, with an optional
// temperature reading.
package imu
