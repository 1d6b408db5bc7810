package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-converter/internal/log"
	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/pipeline"
)

// Timeouts for the HTTP server. Conversion responses stream for the whole
// session, so there is deliberately no write timeout.
const (
	readHeaderTimeout = 10 * time.Second
	streamCopyBufSize = 64 * 1024
)

// Converter is the conversion entry point the server depends on.
type Converter interface {
	Convert(ctx context.Context, req pipeline.Request) (io.ReadCloser, error)
}

// Server is the HTTP front door for the converter.
type Server struct {
	conv   Converter
	router chi.Router
	srv    *http.Server
	log    zerolog.Logger
}

// NewServer builds the router and the underlying http.Server bound to addr.
func NewServer(addr string, conv Converter) *Server {
	s := &Server{
		conv: conv,
		log:  log.WithComponent("httpapi"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/api/convert", s.handleConvert)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving requests until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting new requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type convertRequest struct {
	URL          string `json:"url"`
	Format       string `json:"format"`
	VideoQuality string `json:"videoQuality"`
	AudioQuality string `json:"audioQuality"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var body convertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.URL == "" || body.Format == "" {
		writeError(w, http.StatusBadRequest, "Missing url or format")
		return
	}

	format, err := model.ParseOutputFormat(body.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	videoQuality, err := model.ParseVideoQuality(body.VideoQuality)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	audioQuality, err := model.ParseAudioQuality(body.AudioQuality)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := s.conv.Convert(r.Context(), pipeline.Request{
		VideoRef:     body.URL,
		Format:       format,
		VideoQuality: videoQuality,
		AudioQuality: audioQuality,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)

	if err := streamCopy(w, stream); err != nil && !errors.Is(err, context.Canceled) {
		// Headers are already on the wire; the truncated body is all the
		// client gets. The session logs the root cause itself.
		s.log.Warn().Err(err).Str("format", format.String()).Msg("response stream aborted")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// streamCopy forwards the encoder output to the client, flushing after every
// chunk so playback can start while the session is still running.
func streamCopy(w http.ResponseWriter, src io.Reader) error {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamCopyBufSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// statusFor maps session errors to response codes. Failures past the first
// response byte never reach this; they surface as a truncated body.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrVideoUnavailable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNoSuitableEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrEncodingExpired):
		return http.StatusGone
	case errors.Is(err, model.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrSubprocessUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message})
}
