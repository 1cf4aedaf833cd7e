package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxFileSize caps downloads at the Telegram bot-upload limit.
const MaxFileSize = 50 << 20

// ErrTooLarge reports a file over MaxFileSize. Callers show the direct
// download link instead of the document.
var ErrTooLarge = errors.New("file exceeds size limit")

// Fetcher downloads files behind direct Drive URLs.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 2 * time.Minute},
		maxSize: MaxFileSize,
	}
}

// Fetch downloads url into memory. A Content-Length over the cap short-circuits
// before the body transfer; responses without a length are read up to the cap.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if n, ok, err := f.contentLength(ctx, url); err == nil && ok && n > f.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	if resp.ContentLength > f.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxSize)
	}
	return data, nil
}

// contentLength probes the URL with a HEAD request. ok is false when the
// server does not advertise a length.
func (f *Fetcher) contentLength(ctx context.Context, url string) (int64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.ContentLength < 0 {
		return 0, false, nil
	}
	return resp.ContentLength, true, nil
}
