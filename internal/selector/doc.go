package selector

// Package selector implements the deterministic encoding-selection policy:
// given a catalog snapshot and the requested output format and quality
// preferences, it picks exactly one video and/or audio encoding. Selection is
// pure and performs no I/O.
