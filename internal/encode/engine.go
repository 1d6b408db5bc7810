package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-converter/internal/log"
	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/platform"
)

// FFmpeg argument constants
const (
	// Mux mode: copy both codecs into a fragmented MP4, required when the
	// container is written to a non-seekable pipe
	CopyCodec        = "copy"
	MP4Format        = "mp4"
	StreamingMovWrap = "frag_keyframe+empty_moov"

	// Transcode mode
	MP3Codec  = "libmp3lame"
	MP3Format = "mp3"

	// I/O targets. Mux inputs arrive on inherited descriptors 3 and 4;
	// transcode input arrives on stdin. Output always leaves on stdout.
	MuxVideoInput  = "pipe:3"
	MuxAudioInput  = "pipe:4"
	TranscodeInput = "pipe:0"
	OutputTarget   = "pipe:1"
)

// Lines of subprocess stderr kept for failure reports
const stderrTailLines = 12

// Engine spawns and supervises ffmpeg subprocesses. Construction fails when
// the binary cannot be resolved, so sessions never start network work for an
// encoder that cannot run.
type Engine struct {
	binary string
	log    zerolog.Logger
}

// NewEngine resolves the encoder binary and returns an engine bound to it.
func NewEngine(binaryPath string) (*Engine, error) {
	resolved, err := platform.ResolveBinary(binaryPath)
	if err != nil {
		return nil, err
	}
	return &Engine{
		binary: resolved,
		log:    log.WithComponent("encode"),
	}, nil
}

// Job is one running encoder subprocess. Output delivers the encoded bytes
// incrementally; when the subprocess fails, Output's reader observes the
// terminal error instead of a silent truncation. Done yields exactly one
// terminal signal: nil on normal completion, the session error otherwise.
type Job struct {
	Output io.ReadCloser
	done   chan error
}

// Done exposes the job's terminal lifecycle signal.
func (j *Job) Done() <-chan error {
	return j.done
}

// Mux runs the encoder in copy-mux mode: both codecs are copied without
// re-encoding and interleaved into an MP4 container. The two input streams
// are consumed as they arrive; the encoder performs whatever read-ahead the
// interleaving needs.
func (e *Engine) Mux(ctx context.Context, video, audio io.Reader) (*Job, error) {
	videoRead, videoWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create video pipe: %w", err)
	}
	audioRead, audioWrite, err := os.Pipe()
	if err != nil {
		videoRead.Close()
		videoWrite.Close()
		return nil, fmt.Errorf("create audio pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binary, e.MuxArgs()...)
	cmd.ExtraFiles = []*os.File{videoRead, audioRead}

	job, err := e.start(ctx, cmd, []inputCopy{
		{dst: videoWrite, src: video},
		{dst: audioWrite, src: audio},
	})

	// The child holds its own duplicates of the read ends; the parent's
	// copies must go so the writers see EPIPE when the child exits.
	videoRead.Close()
	audioRead.Close()
	if err != nil {
		videoWrite.Close()
		audioWrite.Close()
		return nil, err
	}
	return job, nil
}

// Transcode runs the encoder in re-encode mode: the source audio is decoded
// and re-encoded to MP3 at the target bitrate.
func (e *Engine) Transcode(ctx context.Context, audio io.Reader, bitrate model.AudioQuality) (*Job, error) {
	cmd := exec.CommandContext(ctx, e.binary, e.TranscodeArgs(bitrate)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	return e.start(ctx, cmd, []inputCopy{{dst: stdin, src: audio}})
}

// MuxArgs builds the ffmpeg arguments for copy-mux mode.
func (e *Engine) MuxArgs() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", MuxVideoInput,
		"-i", MuxAudioInput,
		"-c:v", CopyCodec,
		"-c:a", CopyCodec,
		"-movflags", StreamingMovWrap,
		"-f", MP4Format,
		OutputTarget,
	}
}

// TranscodeArgs builds the ffmpeg arguments for MP3 re-encode mode.
func (e *Engine) TranscodeArgs(bitrate model.AudioQuality) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", TranscodeInput,
		"-vn",
		"-c:a", MP3Codec,
		"-b:a", bitrate.BitrateArg(),
		"-f", MP3Format,
		OutputTarget,
	}
}

// inputCopy pairs one live source stream with the subprocess pipe it feeds.
type inputCopy struct {
	dst io.WriteCloser
	src io.Reader
}

// start launches the subprocess and wires its supervision: input copy
// goroutines, stderr capture, and the goroutine that resolves the terminal
// state once everything has drained.
func (e *Engine) start(ctx context.Context, cmd *exec.Cmd, inputs []inputCopy) (*Job, error) {
	tail := newStderrTail(stderrTailLines)
	cmd.Stderr = tail

	outRead, outWrite := io.Pipe()
	cmd.Stdout = outWrite

	if err := cmd.Start(); err != nil {
		outWrite.Close()
		return nil, fmt.Errorf("%w: %v", model.ErrSubprocessUnavailable, err)
	}
	e.log.Debug().Str("binary", e.binary).Strs("args", cmd.Args[1:]).Msg("encoder started")

	job := &Job{Output: outRead, done: make(chan error, 1)}

	var copies errgroup.Group
	for _, in := range inputs {
		in := in
		copies.Go(func() error {
			_, err := io.Copy(in.dst, in.src)
			in.dst.Close()
			return err
		})
	}

	go func() {
		inputErr := copies.Wait()
		waitErr := cmd.Wait()
		final := e.resolve(ctx, inputErr, waitErr, tail)
		outWrite.CloseWithError(final)
		if final != nil {
			e.log.Warn().Err(final).Str("stderr", tail.String()).Msg("encoder finished with error")
		} else {
			e.log.Debug().Msg("encoder completed")
		}
		job.done <- final
	}()

	return job, nil
}

// resolve reduces the three failure observations (cancellation, input copy
// error, subprocess exit) to the single error reported for the session.
func (e *Engine) resolve(ctx context.Context, inputErr, waitErr error, tail *stderrTail) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// An upstream failure already classified by the taxonomy wins over the
	// secondary broken-pipe/exit noise it causes.
	if inputErr != nil && model.FailureReason(inputErr) != "internal" {
		return inputErr
	}

	if waitErr != nil {
		if msg := tail.String(); msg != "" {
			return fmt.Errorf("%w: %v: %s", model.ErrEncodingFailed, waitErr, msg)
		}
		return fmt.Errorf("%w: %v", model.ErrEncodingFailed, waitErr)
	}

	// A clean exit may close the input pipes before the copies finish;
	// that is not a session failure.
	if inputErr != nil && !errors.Is(inputErr, io.ErrClosedPipe) && !errors.Is(inputErr, syscall.EPIPE) {
		return fmt.Errorf("%w: input stream: %v", model.ErrEncodingFailed, inputErr)
	}
	return nil
}
