package storage

import (
	"context"
	"sync"
	"time"
)

// ExportReader is the read surface the public export path needs. The
// plain Store implements it; CachedExportReader wraps it with a TTL
// cache so every feed poll from an external platform does not hit the
// properties table twice.
type ExportReader interface {
	GetPropertyIDByToken(ctx context.Context, token string) (string, error)
	GetPropertyLabel(ctx context.Context, propertyID string) (string, error)
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// CachedExportReader caches token and label lookups with a fixed TTL.
// The clock is injected so tests can advance time without sleeping.
// Reservations are never cached here: only identity lookups, which
// change rarely (token rotation invalidates within one TTL).
type CachedExportReader struct {
	inner ExportReader
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	tokens  map[string]cacheEntry
	labels  map[string]cacheEntry
}

// NewCachedExportReader wraps an ExportReader with a TTL cache.
func NewCachedExportReader(inner ExportReader, ttl time.Duration, now func() time.Time) *CachedExportReader {
	if now == nil {
		now = time.Now
	}
	return &CachedExportReader{
		inner:  inner,
		ttl:    ttl,
		now:    now,
		tokens: make(map[string]cacheEntry),
		labels: make(map[string]cacheEntry),
	}
}

// GetPropertyIDByToken resolves a token, serving from cache when fresh.
// Failed lookups are not cached, so a newly rotated token works immediately.
func (c *CachedExportReader) GetPropertyIDByToken(ctx context.Context, token string) (string, error) {
	if v, ok := c.get(c.tokens, token); ok {
		return v, nil
	}

	id, err := c.inner.GetPropertyIDByToken(ctx, token)
	if err != nil {
		return "", err
	}

	c.put(c.tokens, token, id)
	return id, nil
}

// GetPropertyLabel returns a property's display name, cached per TTL.
func (c *CachedExportReader) GetPropertyLabel(ctx context.Context, propertyID string) (string, error) {
	if v, ok := c.get(c.labels, propertyID); ok {
		return v, nil
	}

	label, err := c.inner.GetPropertyLabel(ctx, propertyID)
	if err != nil {
		return "", err
	}

	c.put(c.labels, propertyID, label)
	return label, nil
}

func (c *CachedExportReader) get(m map[string]cacheEntry, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := m[key]
	if !ok || c.now().After(entry.expiresAt) {
		delete(m, key)
		return "", false
	}
	return entry.value, true
}

func (c *CachedExportReader) put(m map[string]cacheEntry, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}
