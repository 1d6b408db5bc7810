package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-converter/internal/log"
	"github.com/ytget/yt-converter/internal/metrics"
	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/progress"
	"github.com/ytget/yt-converter/internal/provider"
	"github.com/ytget/yt-converter/internal/selector"
)

// Progress narrative labels and phase messages
const (
	StatusFetchingInfo     = "Fetching video info..."
	StatusMuxing           = "Muxing audio and video..."
	StatusTranscodingAudio = "Downloading and converting audio..."
	StatusFinalizing       = "Finalizing..."

	VideoDownloadLabel = "Downloading video"
	AudioDownloadLabel = "Downloading audio"
)

// Percentage sub-ranges for the concurrent MP4 downloads. The split is a
// fixed linear one regardless of relative stream sizes; total combined bytes
// are not known without probing both encodings upfront.
const (
	videoRangeLo = 0
	videoRangeHi = 50
	audioRangeLo = 50
	audioRangeHi = 100
)

// Request describes one conversion.
type Request struct {
	// VideoRef is the opaque identifier or URL of the source video
	VideoRef string

	// Format selects the pipeline variant
	Format model.OutputFormat

	// VideoQuality is the optional MP4 resolution tier
	VideoQuality model.VideoQuality

	// AudioQuality is the optional MP3 bitrate tier
	AudioQuality model.AudioQuality

	// Sink receives progress events; nil discards them at zero cost
	Sink model.ProgressSink
}

// Converter runs conversion sessions. It holds only read-only collaborators
// and configuration; all mutable state is per-session.
type Converter struct {
	resolver            provider.CatalogResolver
	opener              provider.SegmentOpener
	encoder             Encoder
	defaultAudioQuality model.AudioQuality
	log                 zerolog.Logger
}

// NewConverter wires the pipeline collaborators together.
func NewConverter(resolver provider.CatalogResolver, opener provider.SegmentOpener, encoder Encoder, defaultAudioQuality model.AudioQuality) *Converter {
	if defaultAudioQuality == "" {
		defaultAudioQuality = model.DefaultAudioQuality
	}
	return &Converter{
		resolver:            resolver,
		opener:              opener,
		encoder:             encoder,
		defaultAudioQuality: defaultAudioQuality,
		log:                 log.WithComponent("pipeline"),
	}
}

// Convert runs one session up to the point where the encoder's output stream
// is established and returns that stream while downloading and encoding are
// still in flight. The caller consumes it incrementally; closing it before
// the end abandons the session and tears down every fetcher and the
// subprocess. On failure the stream's reader observes the session error.
func (c *Converter) Convert(ctx context.Context, req Request) (io.ReadCloser, error) {
	if _, err := model.ParseOutputFormat(string(req.Format)); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	sess := newSession(cancel, c.log)
	established := false
	defer func() {
		if !established {
			sess.teardown()
		}
	}()

	metrics.SessionsStarted.WithLabelValues(req.Format.String()).Inc()
	sess.log.Info().
		Str("ref", req.VideoRef).
		Str("format", req.Format.String()).
		Str("video_quality", string(req.VideoQuality)).
		Str("audio_quality", string(req.AudioQuality)).
		Msg("session started")

	agg := progress.NewAggregator(req.Sink)
	agg.Emit(model.ProgressEvent{Percentage: 0, Status: StatusFetchingInfo})

	catalog, err := c.resolver.Catalog(sctx, req.VideoRef)
	if err != nil {
		return nil, c.fail(sess, err)
	}

	sel, err := selector.Choose(catalog, req.Format, req.VideoQuality, req.AudioQuality)
	if err != nil {
		return nil, c.fail(sess, err)
	}

	var job EncoderJob
	if req.Format == model.FormatMP4 {
		job, err = c.runMux(sctx, sess, agg, sel)
	} else {
		job, err = c.runTranscode(sctx, sess, agg, sel, req.AudioQuality)
	}
	if err != nil {
		return nil, c.fail(sess, err)
	}

	go c.watch(sess, agg, job, req.Format)

	established = true
	return &sessionStream{inner: job.Output, sess: sess}, nil
}

// runMux opens the video and audio fetchers concurrently, then hands the two
// live streams to the encoder in copy-mux mode. The fetchers are started in
// parallel on purpose: opening them sequentially would serialize the
// time-to-first-byte of two independent downloads.
func (c *Converter) runMux(ctx context.Context, sess *session, agg *progress.Aggregator, sel selector.Selection) (EncoderJob, error) {
	var videoReporter, audioReporter *progress.Reporter
	if agg.Active() {
		videoReporter = progress.NewReporter(VideoDownloadLabel, videoRangeLo, videoRangeHi)
		audioReporter = progress.NewReporter(AudioDownloadLabel, audioRangeLo, audioRangeHi)
		sess.trackReporter(videoReporter)
		sess.trackReporter(audioReporter)
	}

	var videoStream, audioStream io.ReadCloser
	var g errgroup.Group
	g.Go(func() error {
		stream, err := c.opener.Open(ctx, *sel.Video, videoReporter)
		if err != nil {
			// Abort the sibling fetch; the session is failing anyway.
			sess.cancel()
			return fmt.Errorf("open video stream: %w", err)
		}
		sess.trackStream(stream)
		videoStream = stream
		return nil
	})
	g.Go(func() error {
		stream, err := c.opener.Open(ctx, *sel.Audio, audioReporter)
		if err != nil {
			sess.cancel()
			return fmt.Errorf("open audio stream: %w", err)
		}
		sess.trackStream(stream)
		audioStream = stream
		return nil
	})
	if err := g.Wait(); err != nil {
		return EncoderJob{}, err
	}

	agg.Watch(videoReporter)
	agg.Watch(audioReporter)
	agg.Emit(model.ProgressEvent{Percentage: 0, Status: StatusMuxing})

	return c.encoder.Mux(ctx, videoStream, audioStream)
}

// runTranscode opens the single audio fetcher and hands its stream to the
// encoder in MP3 re-encode mode.
func (c *Converter) runTranscode(ctx context.Context, sess *session, agg *progress.Aggregator, sel selector.Selection, quality model.AudioQuality) (EncoderJob, error) {
	var reporter *progress.Reporter
	if agg.Active() {
		reporter = progress.NewReporter(AudioDownloadLabel, 0, 100)
		sess.trackReporter(reporter)
	}

	stream, err := c.opener.Open(ctx, *sel.Audio, reporter)
	if err != nil {
		return EncoderJob{}, fmt.Errorf("open audio stream: %w", err)
	}
	sess.trackStream(stream)

	agg.Watch(reporter)
	agg.Emit(model.ProgressEvent{Percentage: 0, Status: StatusTranscodingAudio})

	bitrate := quality
	if bitrate == "" {
		bitrate = c.defaultAudioQuality
	}
	return c.encoder.Transcode(ctx, stream, bitrate)
}

// watch waits for the encoder's terminal signal, releases the session's
// resources, and emits the final completion event after every per-source
// forwarder has drained, so nothing follows the 100%.
func (c *Converter) watch(sess *session, agg *progress.Aggregator, job EncoderJob, format model.OutputFormat) {
	err := <-job.Done
	sess.releaseStreams()
	agg.Wait()

	switch {
	case err == nil:
		agg.Emit(model.ProgressEvent{Percentage: 100, Status: StatusFinalizing})
		metrics.SessionsCompleted.WithLabelValues(format.String()).Inc()
		sess.log.Info().Dur("duration", time.Since(sess.started)).Msg("session completed")

	case errors.Is(err, context.Canceled):
		sess.log.Info().Dur("duration", time.Since(sess.started)).Msg("session abandoned by caller")

	default:
		metrics.SessionFailures.WithLabelValues(model.FailureReason(err)).Inc()
		sess.log.Error().Err(err).Dur("duration", time.Since(sess.started)).Msg("session failed")
	}
}

// fail records a pre-stream failure and passes the error through.
func (c *Converter) fail(sess *session, err error) error {
	metrics.SessionFailures.WithLabelValues(model.FailureReason(err)).Inc()
	sess.log.Error().Err(err).Msg("session failed")
	return err
}
