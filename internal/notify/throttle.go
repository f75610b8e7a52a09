package notify

import (
	"sync"
	"time"
)

// Throttler suppresses duplicate notifications inside a time window. Memory
// is bounded: when the key table reaches capacity, expired entries are swept
// and, if none expired, the oldest entry is evicted.
type Throttler struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	now      func() time.Time
	lastSent map[throttleKey]time.Time
}

type throttleKey struct {
	Type    EventType
	UserID  string
	ActorID string
}

func NewThrottler(window time.Duration, capacity int) *Throttler {
	if capacity < 1 {
		capacity = 1
	}
	return &Throttler{
		window:   window,
		capacity: capacity,
		now:      time.Now,
		lastSent: make(map[throttleKey]time.Time),
	}
}

// Allow reports whether ev may be dispatched, recording it if so.
func (t *Throttler) Allow(ev Event) bool {
	key := throttleKey{Type: ev.Type, UserID: ev.UserID, ActorID: ev.ActorID}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastSent[key]; ok && now.Sub(last) < t.window {
		return false
	}
	if _, exists := t.lastSent[key]; !exists && len(t.lastSent) >= t.capacity {
		t.sweepLocked(now)
		if len(t.lastSent) >= t.capacity {
			t.evictOldestLocked()
		}
	}
	t.lastSent[key] = now
	return true
}

func (t *Throttler) sweepLocked(now time.Time) {
	for key, sent := range t.lastSent {
		if now.Sub(sent) >= t.window {
			delete(t.lastSent, key)
		}
	}
}

func (t *Throttler) evictOldestLocked() {
	var oldestKey throttleKey
	var oldest time.Time
	first := true
	for key, sent := range t.lastSent {
		if first || sent.Before(oldest) {
			oldestKey, oldest = key, sent
			first = false
		}
	}
	if !first {
		delete(t.lastSent, oldestKey)
	}
}
