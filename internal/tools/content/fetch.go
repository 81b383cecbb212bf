package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Fetcher downloads remote images for add_image with a hard size cap.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

var extByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/webp": "webp",
}

// Fetch downloads url and returns the image bytes plus a file extension
// derived from the response content type.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", tools.NewBadArgument("invalid image url %q: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", tools.NewImageFetchError(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", tools.NewImageFetchError(fmt.Errorf("status %s", resp.Status), "fetching %s", url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", tools.NewImageFetchError(err, "reading %s", url)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", tools.NewImageFetchError(fmt.Errorf("response exceeds %d bytes", f.maxBytes), "fetching %s", url)
	}

	ext, ok := extByContentType[resp.Header.Get("Content-Type")]
	if !ok {
		ext, ok = extByContentType[http.DetectContentType(data)]
	}
	if !ok {
		return nil, "", tools.NewImageFetchError(fmt.Errorf("unsupported content type %q", resp.Header.Get("Content-Type")), "fetching %s", url)
	}
	return data, ext, nil
}
