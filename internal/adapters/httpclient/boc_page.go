package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"bocrates/internal/domain"
)

// PageClient retrieves the raw HTML of the Bank of China exchange rate page.
// Caching lives one layer up; every call performs network I/O.
type PageClient struct {
	http       *http.Client
	url        string
	maxRetries uint64
}

func (c *PageClient) FetchPage(ctx context.Context) (string, error) {
	attempt := func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return "", backoff.Permanent(&domain.FetchError{URL: c.url, Err: err})
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return "", &domain.FetchError{URL: c.url, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			fetchErr := &domain.FetchError{URL: c.url, StatusCode: resp.StatusCode}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors won't heal on retry.
				return "", backoff.Permanent(fetchErr)
			}
			return "", fetchErr
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &domain.FetchError{URL: c.url, Err: fmt.Errorf("read body: %w", err)}
		}
		return string(body), nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.RetryWithData(attempt, policy)
}

func NewPageClient(httpClient *http.Client, url string, maxRetries int) *PageClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PageClient{http: httpClient, url: url, maxRetries: uint64(maxRetries)}
}
