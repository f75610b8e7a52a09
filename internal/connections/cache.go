package connections

import (
	"sync"
	"time"

	"github.com/castmatch/castmatch-backend/internal/model"
)

// mutualCache holds derived mutual sets per user for a short TTL. Entries
// expire lazily on read; writers evict eagerly via invalidate. Callers must
// treat returned slices as read-only.
type mutualCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]mutualEntry
}

type mutualEntry struct {
	conns     []model.Connection
	expiresAt time.Time
}

func newMutualCache(ttl time.Duration, now func() time.Time) *mutualCache {
	if now == nil {
		now = time.Now
	}
	return &mutualCache{ttl: ttl, now: now, entries: make(map[string]mutualEntry)}
}

func (c *mutualCache) get(userID string) ([]model.Connection, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}
	return e.conns, true
}

func (c *mutualCache) put(userID string, conns []model.Connection) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = mutualEntry{conns: conns, expiresAt: c.now().Add(c.ttl)}
}

func (c *mutualCache) invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
