package provider

import (
	"context"
	"io"

	"github.com/ytget/yt-converter/internal/model"
	"github.com/ytget/yt-converter/internal/progress"
)

// CatalogResolver obtains the full list of encodings the provider currently
// offers for a video reference.
type CatalogResolver interface {
	Catalog(ctx context.Context, ref string) ([]model.EncodingDescriptor, error)
}

// SegmentOpener opens a live, unbounded-length byte stream for a chosen
// encoding. The reporter receives byte-count progress while data flows and
// may be nil.
type SegmentOpener interface {
	Open(ctx context.Context, desc model.EncodingDescriptor, reporter *progress.Reporter) (io.ReadCloser, error)
}
