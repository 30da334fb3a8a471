package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysync/backend/internal/storage/models"
)

const minimalFeed = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:a\r\nDTSTART;VALUE=DATE:20240601\r\nDTEND;VALUE=DATE:20240605\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

func TestFetchAllIsolatesFailures(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(minimalFeed))
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	fetcher := NewFetcher(5 * time.Second)
	results := fetcher.FetchAll(context.Background(), []models.FeedSource{
		{SourceLabel: "airbnb", URL: healthy.URL},
		{SourceLabel: "vrbo", URL: broken.URL},
	})

	require.Len(t, results, 2)

	// Results come back in input order.
	assert.Equal(t, "airbnb", results[0].SourceLabel)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, minimalFeed, string(results[0].Body))

	assert.Equal(t, "vrbo", results[1].SourceLabel)
	assert.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "status 500")
}

func TestFetchAllTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(minimalFeed))
	}))
	defer slow.Close()

	fetcher := NewFetcher(50 * time.Millisecond)
	results := fetcher.FetchAll(context.Background(), []models.FeedSource{
		{SourceLabel: "slow", URL: slow.URL},
	})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestFetchAllNoSources(t *testing.T) {
	fetcher := NewFetcher(time.Second)
	results := fetcher.FetchAll(context.Background(), nil)
	assert.Empty(t, results)
}
