package provider

// Package provider talks to the remote encoding provider: it fetches the
// point-in-time catalog of available encodings for a video reference and
// opens live byte streams for chosen encodings, reporting byte counts to a
// per-stream progress reporter.
