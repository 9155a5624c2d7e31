package linkcheck

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"factgate/internal/model"
)

// probeCache remembers probe results within a run so overlapping working
// sets do not re-probe the same origin post
type probeCache struct {
	cache *gocache.Cache
}

func newProbeCache(ttl time.Duration) *probeCache {
	return &probeCache{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (c *probeCache) Get(rawURL string) (model.LinkCheck, bool) {
	if val, found := c.cache.Get(probeKey(rawURL)); found {
		return val.(model.LinkCheck), true
	}
	return model.LinkCheck{}, false
}

func (c *probeCache) Set(rawURL string, result model.LinkCheck) {
	c.cache.Set(probeKey(rawURL), result, gocache.DefaultExpiration)
}

func probeKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return "factgate:probe:v1:" + hex.EncodeToString(hash[:])
}
