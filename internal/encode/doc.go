package encode

// Package encode drives the external ffmpeg subprocess. One Job wraps one
// subprocess for the lifetime of a session: live input streams are copied
// into its pipes, its stdout is exposed as the session's output stream, and
// its exit is translated into a single terminal lifecycle signal.
