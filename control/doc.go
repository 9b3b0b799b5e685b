// Package control implements the HTTP control client against a device's
// /api surface: status, recording lifecycle, events, templates, the
// calibration blob, and device error reports. No HTTP client library
// appears in this repo's dependency neighborhood, so requests go
// through net/http directly.
package control
