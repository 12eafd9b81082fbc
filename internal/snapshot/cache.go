// Package snapshot keeps the most recent tabular snapshot per source key plus
// a process-wide fallback holding whichever snapshot was stored last.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/harborguide/internal/domain"
)

type Cache struct {
	store    Store
	fallback atomic.Pointer[domain.Snapshot]
	now      func() time.Time
}

type Option func(*Cache)

// Source reports which entry served a Lookup.
type Source int

const (
	SourceNone Source = iota
	SourceKeyed
	SourceFallback
)

// WithClock overrides the clock used to stamp snapshots without CapturedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache over store. A nil store uses NewMemoryStore.
func NewCache(store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put stores snap under sourceKey, replacing any previous entry, and makes it
// the fallback. An empty sourceKey only updates the fallback.
func (c *Cache) Put(sourceKey string, snap *domain.Snapshot) {
	stored := snap.Clone()
	if stored == nil {
		stored = &domain.Snapshot{}
	}
	if stored.Blocks == nil {
		stored.Blocks = []domain.TabularBlock{}
	}
	if stored.CapturedAt.IsZero() {
		stored.CapturedAt = c.now().UTC()
	}
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.SourceKey = sourceKey

	if sourceKey != "" {
		c.store.Save(sourceKey, stored)
	}
	c.fallback.Store(stored)
}

// Get returns a copy of the snapshot for sourceKey, else of the fallback,
// else nil.
func (c *Cache) Get(sourceKey string) *domain.Snapshot {
	s, _ := c.Lookup(sourceKey)
	return s
}

// Lookup is Get that also reports which entry served the request. Callers
// own the returned copy.
func (c *Cache) Lookup(sourceKey string) (*domain.Snapshot, Source) {
	if sourceKey != "" {
		if s, ok := c.store.Load(sourceKey); ok {
			return s.Clone(), SourceKeyed
		}
	}
	if s := c.fallback.Load(); s != nil {
		return s.Clone(), SourceFallback
	}
	return nil, SourceNone
}

// Len is the number of keyed snapshots.
func (c *Cache) Len() int {
	return c.store.Len()
}
