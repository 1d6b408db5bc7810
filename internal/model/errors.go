package model

import "errors"

// Session failure taxonomy. Every failure is terminal for the session; none
// are retried internally. Callers classify with errors.Is and decide whether
// to issue a fresh convert request (required anyway, since catalog handles
// may have expired).
var (
	// ErrInvalidReference means the video reference was empty or rejected
	// by the provider
	ErrInvalidReference = errors.New("invalid video reference")

	// ErrVideoUnavailable means the provider has no video for the reference
	ErrVideoUnavailable = errors.New("video unavailable")

	// ErrNoSuitableEncoding means the catalog holds no encoding matching
	// the requested format and quality
	ErrNoSuitableEncoding = errors.New("no suitable encoding")

	// ErrProviderUnavailable means the provider could not be reached or
	// answered with a server error
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEncodingExpired means the descriptor handle referenced stale
	// provider state
	ErrEncodingExpired = errors.New("encoding handle expired")

	// ErrStreamInterrupted means a segment download dropped mid-stream
	ErrStreamInterrupted = errors.New("stream interrupted")

	// ErrEncodingFailed means the encoder subprocess exited abnormally or
	// rejected its input
	ErrEncodingFailed = errors.New("encoding failed")

	// ErrSubprocessUnavailable means the encoder binary is missing or not
	// executable
	ErrSubprocessUnavailable = errors.New("encoder binary unavailable")
)

// FailureReason maps a session error to a short stable label used in logs
// and metrics
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrVideoUnavailable):
		return "video_unavailable"
	case errors.Is(err, ErrNoSuitableEncoding):
		return "no_suitable_encoding"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrEncodingExpired):
		return "encoding_expired"
	case errors.Is(err, ErrStreamInterrupted):
		return "stream_interrupted"
	case errors.Is(err, ErrEncodingFailed):
		return "encoding_failed"
	case errors.Is(err, ErrSubprocessUnavailable):
		return "subprocess_unavailable"
	default:
		return "internal"
	}
}
