package selector

import (
	"fmt"

	"github.com/ytget/yt-converter/internal/model"
)

// Selection is the outcome of choosing encodings for one session. Video is
// nil for MP3 sessions.
type Selection struct {
	Video *model.EncodingDescriptor
	Audio *model.EncodingDescriptor
}

// Choose picks the encodings for the requested output format.
//
// MP4: one video-only encoding matching the requested tier (highest available
// when no preference is given) plus the highest-tier audio-only encoding; the
// audio preference is not honored for MP4. A requested video tier with no
// matching entry fails, it has no fallback rule.
//
// MP3: one audio-only encoding matching the requested tier, highest available
// when no preference is given.
//
// The result is deterministic regardless of catalog ordering.
func Choose(catalog []model.EncodingDescriptor, format model.OutputFormat, videoQuality model.VideoQuality, audioQuality model.AudioQuality) (Selection, error) {
	switch format {
	case model.FormatMP4:
		video, err := chooseVideo(catalog, videoQuality)
		if err != nil {
			return Selection{}, err
		}
		audio, err := chooseAudio(catalog, "")
		if err != nil {
			return Selection{}, err
		}
		return Selection{Video: video, Audio: audio}, nil

	case model.FormatMP3:
		audio, err := chooseAudio(catalog, audioQuality)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Audio: audio}, nil

	default:
		return Selection{}, fmt.Errorf("%w: unsupported format %q", model.ErrNoSuitableEncoding, format)
	}
}

// chooseVideo picks a video-only encoding by exact tier, or the highest tier
// when quality is unset.
func chooseVideo(catalog []model.EncodingDescriptor, quality model.VideoQuality) (*model.EncodingDescriptor, error) {
	var best *model.EncodingDescriptor

	for i := range catalog {
		d := catalog[i]
		if d.Kind != model.KindVideoOnly {
			continue
		}
		if quality != "" {
			if d.Quality == string(quality) {
				return &d, nil
			}
			continue
		}
		if best == nil || d.VideoRank() > best.VideoRank() ||
			(d.VideoRank() == best.VideoRank() && d.Handle < best.Handle) {
			best = &d
		}
	}

	if best == nil {
		if quality != "" {
			return nil, fmt.Errorf("%w: no video encoding at %s", model.ErrNoSuitableEncoding, quality)
		}
		return nil, fmt.Errorf("%w: catalog has no video-only encoding", model.ErrNoSuitableEncoding)
	}
	return best, nil
}

// chooseAudio picks an audio-only encoding by exact tier, or the highest tier
// when quality is unset.
func chooseAudio(catalog []model.EncodingDescriptor, quality model.AudioQuality) (*model.EncodingDescriptor, error) {
	var best *model.EncodingDescriptor

	for i := range catalog {
		d := catalog[i]
		if d.Kind != model.KindAudioOnly {
			continue
		}
		if quality != "" {
			if d.Quality == string(quality) {
				return &d, nil
			}
			continue
		}
		if best == nil || d.AudioRank() > best.AudioRank() ||
			(d.AudioRank() == best.AudioRank() && d.Handle < best.Handle) {
			best = &d
		}
	}

	if best == nil {
		if quality != "" {
			return nil, fmt.Errorf("%w: no audio encoding at %s", model.ErrNoSuitableEncoding, quality)
		}
		return nil, fmt.Errorf("%w: catalog has no audio-only encoding", model.ErrNoSuitableEncoding)
	}
	return best, nil
}
