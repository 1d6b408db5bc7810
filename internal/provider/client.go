package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-converter/internal/log"
	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/progress"
)

// Catalog endpoint template relative to the provider base URL
const catalogPathTemplate = "videos/%s/encodings"

// catalogResponse is the provider's catalog payload
type catalogResponse struct {
	Encodings []model.EncodingDescriptor `json:"encodings"`
}

// Client is the HTTP client for the remote encoding provider. It implements
// CatalogResolver and SegmentOpener.
type Client struct {
	baseURL        *url.URL
	httpc          *http.Client
	catalogTimeout time.Duration
	log            zerolog.Logger
}

// NewClient creates a provider client for the given base URL. catalogTimeout
// bounds catalog fetches only; segment streams live as long as the session.
func NewClient(baseURL string, catalogTimeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid provider base URL %q", baseURL)
	}
	return &Client{
		baseURL:        parsed,
		httpc:          &http.Client{},
		catalogTimeout: catalogTimeout,
		log:            log.WithComponent("provider"),
	}, nil
}

// Catalog fetches the list of encodings available for the video reference.
func (c *Client) Catalog(ctx context.Context, ref string) ([]model.EncodingDescriptor, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: empty reference", model.ErrInvalidReference)
	}

	if c.catalogTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.catalogTimeout)
		defer cancel()
	}

	endpoint := c.baseURL.JoinPath(fmt.Sprintf(catalogPathTemplate, url.PathEscape(ref)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidReference, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: provider rejected %q", model.ErrInvalidReference, ref)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", model.ErrVideoUnavailable, ref)
	default:
		return nil, fmt.Errorf("%w: catalog status %d", model.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog: %v", model.ErrProviderUnavailable, err)
	}

	c.log.Debug().Str("ref", ref).Int("encodings", len(payload.Encodings)).Msg("catalog fetched")
	return payload.Encodings, nil
}

// Open starts streaming the encoding referenced by the descriptor handle.
// The returned reader surfaces mid-stream connection drops as
// ErrStreamInterrupted; the session is then failed, retries are the caller's
// concern since the handle may have expired.
func (c *Client) Open(ctx context.Context, desc model.EncodingDescriptor, reporter *progress.Reporter) (io.ReadCloser, error) {
	handleURL, err := url.Parse(desc.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: bad handle: %v", model.ErrEncodingExpired, err)
	}
	target := c.baseURL.ResolveReference(handleURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProviderUnavailable, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusForbidden, http.StatusNotFound, http.StatusGone:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: segment status %d", model.ErrEncodingExpired, resp.StatusCode)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: segment status %d", model.ErrProviderUnavailable, resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = desc.ContentLength
	}

	c.log.Debug().Str("kind", string(desc.Kind)).Str("quality", desc.Quality).Int64("total", total).Msg("segment stream opened")
	return &segmentReader{body: resp.Body, reporter: reporter, total: total}, nil
}

// segmentReader counts bytes into the reporter and normalises mid-stream
// failures to the session error taxonomy.
type segmentReader struct {
	body     io.ReadCloser
	reporter *progress.Reporter
	total    int64
	read     int64
}

func (s *segmentReader) Read(p []byte) (int, error) {
	n, err := s.body.Read(p)
	if n > 0 {
		s.read += int64(n)
		s.reporter.Update(s.read, s.total)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", model.ErrStreamInterrupted, err)
	}
	if errors.Is(err, io.EOF) {
		// A declared total that was never reached is a truncated stream,
		// not a normal end of data.
		if s.total > 0 && s.read < s.total {
			return n, fmt.Errorf("%w: stream ended at %d of %d bytes", model.ErrStreamInterrupted, s.read, s.total)
		}
		s.reporter.Close()
	}
	return n, err
}

func (s *segmentReader) Close() error {
	s.reporter.Close()
	return s.body.Close()
}
