package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFetcher streams media assets over HTTP. No whole-body buffering: the
// response body is handed to the caller as-is so large files ride io.Copy.
// Cancellation comes from the request context, not a client timeout.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, "", err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return resp.Body, resp.ContentLength, resp.Header.Get("Content-Type"), nil
}
