package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-converter/internal/metrics"
	"github.com/ytget/yt-converter/internal/progress"
)

// session owns every resource of one conversion request: the cancel handle
// covering the fetchers and the subprocess, the open segment streams, and
// their progress reporters. Nothing is shared across sessions.
type session struct {
	id      string
	log     zerolog.Logger
	cancel  context.CancelFunc
	started time.Time

	mu        sync.Mutex
	streams   []io.ReadCloser
	reporters []*progress.Reporter
	released  bool
}

func newSession(cancel context.CancelFunc, logger zerolog.Logger) *session {
	id := sessionID()
	return &session{
		id:      id,
		log:     logger.With().Str("session", id).Logger(),
		cancel:  cancel,
		started: time.Now(),
	}
}

// sessionID generates a time-ordered unique id, falling back to a timestamp
// if UUID generation fails.
func sessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return id.String()
}

// trackStream registers a segment stream for teardown. Safe to call from the
// concurrent open goroutines.
func (s *session) trackStream(stream io.ReadCloser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams = append(s.streams, stream)
}

// trackReporter registers a progress reporter for teardown.
func (s *session) trackReporter(r *progress.Reporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reporters = append(s.reporters, r)
}

// releaseStreams closes all tracked streams and reporters once.
func (s *session) releaseStreams() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	streams := s.streams
	reporters := s.reporters
	s.mu.Unlock()

	for _, stream := range streams {
		stream.Close()
	}
	for _, r := range reporters {
		r.Close()
	}
}

// teardown cancels in-flight work and releases every owned resource.
func (s *session) teardown() {
	s.cancel()
	s.releaseStreams()
}

// sessionStream is the output stream handed to the caller. Closing it
// abandons the session: the subprocess is terminated and the fetchers
// released, so nothing outlives an abandoned request.
type sessionStream struct {
	inner io.ReadCloser
	sess  *session
	once  sync.Once
}

func (s *sessionStream) Read(p []byte) (int, error) {
	n, err := s.inner.Read(p)
	if n > 0 {
		metrics.OutputBytes.Add(float64(n))
	}
	return n, err
}

func (s *sessionStream) Close() error {
	var err error
	s.once.Do(func() {
		s.sess.teardown()
		err = s.inner.Close()
	})
	return err
}
