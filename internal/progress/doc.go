package progress

// Package progress carries download and encoding progress from concurrent
// sources to a single caller-supplied sink. Each source owns a Reporter that
// scales its byte counts into a declared percentage sub-range and keeps its
// own contribution non-decreasing; the Aggregator fans the per-source event
// channels into the sink in arrival order.
