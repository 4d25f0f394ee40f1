package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kozaktomas/photo-analyzer/internal/config"
)

// ImageFetcher downloads remote images.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) ([]byte, error)
}

// HTTPFetcher downloads images over HTTP(S) with a size cap.
type HTTPFetcher struct {
	client   *resty.Client
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher from the fetch configuration.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept", "image/*")

	return &HTTPFetcher{client: client, maxBytes: cfg.MaxBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, imageURL string) ([]byte, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}

	reader := io.Reader(body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(body, f.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	return data, nil
}
