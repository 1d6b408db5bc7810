package model

// Package model defines domain data structures used across the pipeline:
// output formats, quality tiers, encoding descriptors, progress events, and
// the error taxonomy surfaced to callers.
