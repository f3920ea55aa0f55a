package notification

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Throttle limits qualifying notifications to one per interval per key.
// Events inside the cooldown are dropped by the caller, never queued.
type Throttle struct {
	cache    *gocache.Cache
	interval time.Duration
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		cache:    gocache.New(interval, 2*interval),
		interval: interval,
	}
}

// Allow reports whether a notification for key may be sent now, and if so
// starts a new cooldown measured from this moment.
func (t *Throttle) Allow(key string) bool {
	if _, found := t.cache.Get(key); found {
		return false
	}
	t.cache.Set(key, time.Now(), t.interval)
	return true
}
