package model

// ProgressEvent reports how far a session has advanced. Percentage is in
// [0,100]; Status is a short human-readable phase description.
type ProgressEvent struct {
	Percentage float64
	Status     string
}

// ProgressSink receives progress events for a session. A nil sink means the
// caller does not want progress and events are dropped at zero cost.
type ProgressSink func(ProgressEvent)
