package pipeline

import (
	"context"
	"io"

	"github.com/ytget/yt-converter/internal/encode"
	"github.com/ytget/yt-converter/internal/model"
)

// EncoderJob is a running encoder subprocess as the orchestrator sees it:
// the output stream plus the terminal lifecycle signal.
type EncoderJob struct {
	Output io.ReadCloser
	Done   <-chan error
}

// Encoder abstracts the external encoding subprocess driver.
type Encoder interface {
	// Mux combines a video and an audio stream into an MP4 container with
	// copied codecs.
	Mux(ctx context.Context, video, audio io.Reader) (EncoderJob, error)

	// Transcode re-encodes an audio stream to MP3 at the target bitrate.
	Transcode(ctx context.Context, audio io.Reader, bitrate model.AudioQuality) (EncoderJob, error)
}

// engineEncoder adapts *encode.Engine to the Encoder interface.
type engineEncoder struct {
	engine *encode.Engine
}

// NewEngineEncoder wraps the ffmpeg engine for use by the orchestrator.
func NewEngineEncoder(e *encode.Engine) Encoder {
	return engineEncoder{engine: e}
}

func (w engineEncoder) Mux(ctx context.Context, video, audio io.Reader) (EncoderJob, error) {
	job, err := w.engine.Mux(ctx, video, audio)
	if err != nil {
		return EncoderJob{}, err
	}
	return EncoderJob{Output: job.Output, Done: job.Done()}, nil
}

func (w engineEncoder) Transcode(ctx context.Context, audio io.Reader, bitrate model.AudioQuality) (EncoderJob, error) {
	job, err := w.engine.Transcode(ctx, audio, bitrate)
	if err != nil {
		return EncoderJob{}, err
	}
	return EncoderJob{Output: job.Output, Done: job.Done()}, nil
}
