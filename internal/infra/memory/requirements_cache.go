package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/SenQii/securejoin/internal/domain"
	"golang.org/x/sync/singleflight"
)

// RequirementsLoader resolves a secure link into its verification
// requirements, normally against the remote API.
type RequirementsLoader interface {
	FetchRequirements(ctx context.Context, link string) (domain.Requirements, error)
}

// RequirementsCache caches per-link requirements with TTL so repeated lookups
// of the same secure link do not hammer the API. Errors are never cached; a
// dead link stays a fresh lookup.
type RequirementsCache struct {
	loader RequirementsLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedRequirements
}

type cachedRequirements struct {
	requirements domain.Requirements
	expiresAt    time.Time
}

func NewRequirementsCache(loader RequirementsLoader, ttl time.Duration) *RequirementsCache {
	return &RequirementsCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRequirements),
	}
}

func (c *RequirementsCache) FetchRequirements(ctx context.Context, link string) (domain.Requirements, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[link]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.requirements, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(link, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[link]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.requirements, nil
		}
		c.mu.RUnlock()

		requirements, err := c.loader.FetchRequirements(ctx, link)
		if err != nil {
			return domain.Requirements{}, err
		}

		c.mu.Lock()
		c.cache[link] = cachedRequirements{
			requirements: requirements,
			expiresAt:    now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return requirements, nil
	})
	if err != nil {
		return domain.Requirements{}, err
	}
	return result.(domain.Requirements), nil
}

func (c *RequirementsCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
