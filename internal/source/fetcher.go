// Package source fetches and decodes the external ticketing feeds.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxPayloadSize = 32 * 1024 * 1024

var ErrEmptyPayload = errors.New("empty payload")

// HTTPFetcher retrieves raw feed payloads over HTTP GET.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// WithHTTPClient returns a fetcher using client (for tests).
func (f *HTTPFetcher) WithHTTPClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}
	return body, nil
}
