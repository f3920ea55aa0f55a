package browser

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Factory creates a fresh driver session for a user key.
type Factory func(key string) (Driver, error)

// Registry owns every live browser session, at most one per user key.
// Acquire is idempotent: a responsive session is reused, a dead one is
// quietly replaced.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	drivers map[string]Driver
	limiter *rate.Limiter
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		drivers: make(map[string]Driver),
	}
}

// SetRateLimit caps page-load navigation actions across all sessions in the
// registry. Zero or negative disables the limit.
func (r *Registry) SetRateLimit(maxLoadsPerSecond float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if maxLoadsPerSecond <= 0 {
		r.limiter = nil
		return
	}
	r.limiter = rate.NewLimiter(rate.Limit(maxLoadsPerSecond), 1)
}

// Acquire returns the live session for key, probing it with a trivial
// current-URL read first. Any probe failure discards the session and a new
// one is created.
func (r *Registry) Acquire(key string) (Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.drivers[key]; ok {
		if _, err := existing.CurrentURL(); err == nil {
			return r.rated(existing), nil
		}
		log.Infof("existing browser session for %v not responsive, creating new one", key)
		r.closeLocked(key)
	}

	driver, err := r.factory(key)
	if err != nil {
		return nil, err
	}
	r.drivers[key] = driver
	return r.rated(driver), nil
}

func (r *Registry) rated(d Driver) Driver {
	if r.limiter == nil {
		return d
	}
	return &ratedDriver{Driver: d, limiter: r.limiter}
}

// Close quits and forgets the session for key, if any.
func (r *Registry) Close(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked(key)
}

func (r *Registry) closeLocked(key string) {
	driver, ok := r.drivers[key]
	if !ok {
		return
	}
	delete(r.drivers, key)
	if err := driver.Quit(); err != nil {
		log.Errorf("error closing browser for %v: %v", key, err)
		return
	}
	log.Infof("browser closed for: %v", key)
}

// CloseAll quits every live session. Used on process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.drivers {
		r.closeLocked(key)
	}
}

// ratedDriver throttles page loads through the registry limiter. Element
// interactions are not limited, only full navigations.
type ratedDriver struct {
	Driver
	limiter *rate.Limiter
}

func (d *ratedDriver) Get(url string) error {
	if err := d.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return d.Driver.Get(url)
}

func (d *ratedDriver) Refresh() error {
	if err := d.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return d.Driver.Refresh()
}
