package model

// EncodingKind classifies a catalog entry by the media it carries
type EncodingKind string

const (
	// KindVideoOnly is a video bitstream without audio
	KindVideoOnly EncodingKind = "video-only"

	// KindAudioOnly is an audio bitstream without video
	KindAudioOnly EncodingKind = "audio-only"

	// KindCombined carries both video and audio in one bitstream
	KindCombined EncodingKind = "combined"
)

// EncodingDescriptor is one entry from the provider's catalog. It is a
// point-in-time snapshot: Handle may reference provider state that expires,
// in which case opening it fails and the caller must start over with a fresh
// catalog.
type EncodingDescriptor struct {
	// Kind says whether the encoding carries video, audio, or both
	Kind EncodingKind `json:"kind"`

	// Quality is the provider-declared tier label, e.g. "720p" or "192kbps"
	Quality string `json:"quality"`

	// Handle is the opaque provider reference used to open the byte stream
	Handle string `json:"handle"`

	// ContentLength is the declared stream size in bytes, 0 if unknown
	ContentLength int64 `json:"contentLength,omitempty"`
}

// VideoRank returns the ordinal of the declared video tier, 0 if the label
// is not a known video tier
func (d EncodingDescriptor) VideoRank() int {
	return VideoQuality(d.Quality).Rank()
}

// AudioRank returns the ordinal of the declared audio tier, 0 if the label
// is not a known audio tier
func (d EncodingDescriptor) AudioRank() int {
	return AudioQuality(d.Quality).Rank()
}
