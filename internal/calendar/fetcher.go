package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// maxFeedBytes caps how much of a feed body is read. Availability
// feeds are a few kilobytes; anything near this limit is not a calendar.
const maxFeedBytes = 5 << 20

// FetchResult is the outcome of retrieving one feed source. Either
// Body or Err is set, never both.
type FetchResult struct {
	SourceLabel string
	URL         string
	Body        []byte
	Err         error
}

// Fetcher retrieves raw iCal documents from configured feed URLs.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a feed fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchAll retrieves every source concurrently and returns one result
// per source, in input order. Each fetch is independent: a timeout or
// non-2xx response on one feed is recorded in its result and does not
// abort the others. There are no retries here; the sync scheduler's
// cadence is the retry policy.
func (f *Fetcher) FetchAll(ctx context.Context, sources []models.FeedSource) []FetchResult {
	results := make([]FetchResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src models.FeedSource) {
			defer wg.Done()

			body, err := f.fetchOne(ctx, src.URL)
			results[i] = FetchResult{
				SourceLabel: src.SourceLabel,
				URL:         src.URL,
				Body:        body,
				Err:         err,
			}
		}(i, src)
	}
	wg.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("reading feed body: %w", err)
	}

	return body, nil
}
