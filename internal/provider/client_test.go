package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/progress"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("not-a-url", time.Second)
	assert.Error(t, err)
}

func TestCatalog_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/abc123/encodings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"encodings":[
			{"kind":"video-only","quality":"720p","handle":"/segments/v720"},
			{"kind":"audio-only","quality":"192kbps","handle":"/segments/a192","contentLength":1000}
		]}`))
	}))

	catalog, err := c.Catalog(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, model.KindVideoOnly, catalog[0].Kind)
	assert.Equal(t, "192kbps", catalog[1].Quality)
	assert.Equal(t, int64(1000), catalog[1].ContentLength)
}

func TestCatalog_EmptyReference(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty reference")
	}))

	_, err := c.Catalog(context.Background(), "  ")
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}

func TestCatalog_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, model.ErrInvalidReference},
		{http.StatusNotFound, model.ErrVideoUnavailable},
		{http.StatusInternalServerError, model.ErrProviderUnavailable},
		{http.StatusBadGateway, model.ErrProviderUnavailable},
	}

	for _, test := range tests {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(test.status)
		}))

		_, err := c.Catalog(context.Background(), "abc123")
		assert.ErrorIs(t, err, test.want, "status %d", test.status)
	}
}

func TestCatalog_MalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))

	_, err := c.Catalog(context.Background(), "abc123")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestOpen_StreamsAndReportsProgress(t *testing.T) {
	payload := make([]byte, 4096)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/segments/v720", r.URL.Path)
		_, _ = w.Write(payload)
	}))

	reporter := progress.NewReporter("Downloading video", 0, 50)

	// Drain concurrently the way the aggregator does, so no update is
	// dropped on a full channel.
	events := make(chan []model.ProgressEvent, 1)
	go func() {
		var all []model.ProgressEvent
		for ev := range reporter.Events() {
			all = append(all, ev)
		}
		events <- all
	}()

	stream, err := c.Open(context.Background(), model.EncodingDescriptor{
		Kind:    model.KindVideoOnly,
		Quality: "720p",
		Handle:  "/segments/v720",
	}, reporter)
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Len(t, data, len(payload))

	all := <-events
	require.NotEmpty(t, all)
	last := model.ProgressEvent{Percentage: -1}
	for _, ev := range all {
		assert.GreaterOrEqual(t, ev.Percentage, last.Percentage, "per-source progress must not regress")
		assert.LessOrEqual(t, ev.Percentage, 50.0)
		last = ev
	}
	assert.Equal(t, 50.0, last.Percentage)
}

func TestOpen_ExpiredStatuses(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusGone} {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := c.Open(context.Background(), model.EncodingDescriptor{Handle: "/segments/x"}, nil)
		assert.ErrorIs(t, err, model.ErrEncodingExpired, "status %d", status)
	}
}

func TestOpen_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Open(context.Background(), model.EncodingDescriptor{Handle: "/segments/x"}, nil)
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestOpen_TruncatedStream(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write(make([]byte, 100))
		// Hijack and drop the connection mid-body.
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))

	stream, err := c.Open(context.Background(), model.EncodingDescriptor{Handle: "/segments/x"}, nil)
	require.NoError(t, err)
	defer stream.Close()

	_, err = io.ReadAll(stream)
	assert.ErrorIs(t, err, model.ErrStreamInterrupted)
}

func TestOpen_AbsoluteHandle(t *testing.T) {
	segments := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bytes"))
	}))
	defer segments.Close()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("catalog host must not be hit for an absolute handle")
	}))

	stream, err := c.Open(context.Background(), model.EncodingDescriptor{Handle: segments.URL + "/seg"}, nil)
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}
