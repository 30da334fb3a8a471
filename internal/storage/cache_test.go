package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	tokenCalls int
	labelCalls int
	err        error
}

func (c *countingReader) GetPropertyIDByToken(ctx context.Context, token string) (string, error) {
	c.tokenCalls++
	if c.err != nil {
		return "", c.err
	}
	return "prop-1", nil
}

func (c *countingReader) GetPropertyLabel(ctx context.Context, propertyID string) (string, error) {
	c.labelCalls++
	if c.err != nil {
		return "", c.err
	}
	return "Seaside Cottage", nil
}

func TestCachedExportReaderServesFromCache(t *testing.T) {
	inner := &countingReader{}
	clock := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCachedExportReader(inner, 5*time.Minute, func() time.Time { return clock })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		id, err := cache.GetPropertyIDByToken(ctx, "tok-abc")
		require.NoError(t, err)
		assert.Equal(t, "prop-1", id)

		label, err := cache.GetPropertyLabel(ctx, "prop-1")
		require.NoError(t, err)
		assert.Equal(t, "Seaside Cottage", label)
	}

	assert.Equal(t, 1, inner.tokenCalls)
	assert.Equal(t, 1, inner.labelCalls)
}

func TestCachedExportReaderExpires(t *testing.T) {
	inner := &countingReader{}
	clock := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCachedExportReader(inner, 5*time.Minute, func() time.Time { return clock })

	ctx := context.Background()
	_, err := cache.GetPropertyIDByToken(ctx, "tok-abc")
	require.NoError(t, err)

	clock = clock.Add(5*time.Minute + time.Second)

	_, err = cache.GetPropertyIDByToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.tokenCalls, "expired entries are refetched")
}

func TestCachedExportReaderDoesNotCacheErrors(t *testing.T) {
	inner := &countingReader{err: errors.New("not found")}
	clock := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCachedExportReader(inner, 5*time.Minute, func() time.Time { return clock })

	ctx := context.Background()
	_, err := cache.GetPropertyIDByToken(ctx, "tok-bad")
	require.Error(t, err)

	// The token starts working: a rotation landed between polls.
	inner.err = nil
	id, err := cache.GetPropertyIDByToken(ctx, "tok-bad")
	require.NoError(t, err)
	assert.Equal(t, "prop-1", id)
	assert.Equal(t, 2, inner.tokenCalls)
}
