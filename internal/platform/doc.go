package platform

// Package platform contains OS integration glue: locating the external
// encoder binary and verifying it is executable before any session work
// starts.
