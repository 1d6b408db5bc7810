package pipeline

// Package pipeline sequences one conversion session end to end: resolve the
// encoding catalog, select encodings, open the segment streams, hand them to
// the encoder, and return the encoder's output as the session's single
// outbound byte stream. Each session exclusively owns its fetchers, encoder
// job, and output stream; teardown releases all of them on success, failure,
// or abandonment.
