package model

import "fmt"

// OutputFormat selects which pipeline variant runs
type OutputFormat string

const (
	// FormatMP4 muxes copied video and audio streams into an MP4 container
	FormatMP4 OutputFormat = "mp4"

	// FormatMP3 transcodes the audio stream to MP3
	FormatMP3 OutputFormat = "mp3"
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	return string(f)
}

// ContentType returns the MIME type served for this format
func (f OutputFormat) ContentType() string {
	if f == FormatMP3 {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// ParseOutputFormat validates a requested format string
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatMP4, FormatMP3:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}

// VideoQuality is a requested video resolution tier. The zero value means
// "no preference" (highest available wins).
type VideoQuality string

const (
	Video360p  VideoQuality = "360p"
	Video480p  VideoQuality = "480p"
	Video720p  VideoQuality = "720p"
	Video1080p VideoQuality = "1080p"
)

// videoRanks orders video tiers from lowest to highest
var videoRanks = map[VideoQuality]int{
	Video360p:  1,
	Video480p:  2,
	Video720p:  3,
	Video1080p: 4,
}

// Rank returns the tier ordinal, 0 for unknown labels
func (q VideoQuality) Rank() int {
	return videoRanks[q]
}

// ParseVideoQuality validates a requested video quality string. Empty input
// is accepted and means no preference.
func ParseVideoQuality(s string) (VideoQuality, error) {
	if s == "" {
		return "", nil
	}
	if _, ok := videoRanks[VideoQuality(s)]; !ok {
		return "", fmt.Errorf("unsupported video quality: %q", s)
	}
	return VideoQuality(s), nil
}

// AudioQuality is a requested audio bitrate tier. The zero value means
// "no preference".
type AudioQuality string

const (
	Audio128kbps AudioQuality = "128kbps"
	Audio192kbps AudioQuality = "192kbps"
	Audio256kbps AudioQuality = "256kbps"
	Audio320kbps AudioQuality = "320kbps"
)

// DefaultAudioQuality is the MP3 target bitrate when no preference is given
const DefaultAudioQuality = Audio320kbps

// audioRanks orders audio tiers from lowest to highest
var audioRanks = map[AudioQuality]int{
	Audio128kbps: 1,
	Audio192kbps: 2,
	Audio256kbps: 3,
	Audio320kbps: 4,
}

// Rank returns the tier ordinal, 0 for unknown labels
func (q AudioQuality) Rank() int {
	return audioRanks[q]
}

// BitrateArg returns the tier formatted as an encoder bitrate argument,
// e.g. "192k"
func (q AudioQuality) BitrateArg() string {
	switch q {
	case Audio128kbps:
		return "128k"
	case Audio192kbps:
		return "192k"
	case Audio256kbps:
		return "256k"
	default:
		return "320k"
	}
}

// ParseAudioQuality validates a requested audio quality string. Empty input
// is accepted and means no preference.
func ParseAudioQuality(s string) (AudioQuality, error) {
	if s == "" {
		return "", nil
	}
	if _, ok := audioRanks[AudioQuality(s)]; !ok {
		return "", fmt.Errorf("unsupported audio quality: %q", s)
	}
	return AudioQuality(s), nil
}
