package stats

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
)

const minCacheSizeBytes = 512 * 1024

// Cache keeps computed summaries per user until the TTL passes, the user's
// workout history changes or the local day the summary was computed on ends.
type Cache struct {
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewCache(sizeBytes int, ttl time.Duration, metricsManager *metrics.Manager) *Cache {
	if sizeBytes < minCacheSizeBytes {
		sizeBytes = minCacheSizeBytes
	}
	return &Cache{
		cache:          freecache.NewCache(sizeBytes),
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func cacheKey(userID string) []byte {
	return []byte("stats||" + userID)
}

type cachedSummary struct {
	Day     string  `json:"day"`
	Summary Summary `json:"summary"`
}

// Get returns the user's summary if it was computed on the given day.
func (c *Cache) Get(userID, day string) (Summary, bool) {
	raw, err := c.cache.Get(cacheKey(userID))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("stats cache get [%s]: %s", userID, err)
		}
		c.count("miss")
		return Summary{}, false
	}

	var entry cachedSummary
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Errorf("stats cache unmarshal [%s]: %s", userID, err)
		c.count("miss")
		return Summary{}, false
	}
	if entry.Day != day {
		// streak and period counts moved on with the date
		c.count("miss")
		return Summary{}, false
	}

	c.count("hit")
	return entry.Summary, true
}

func (c *Cache) Set(userID, day string, summary Summary) {
	raw, err := json.Marshal(cachedSummary{Day: day, Summary: summary})
	if err != nil {
		log.Errorf("stats cache marshal [%s]: %s", userID, err)
		return
	}
	if err := c.cache.Set(cacheKey(userID), raw, int(c.ttl.Seconds())); err != nil {
		log.Errorf("stats cache set [%s]: %s", userID, err)
	}
}

func (c *Cache) Invalidate(userID string) {
	c.cache.Del(cacheKey(userID))
}

func (c *Cache) Clear() {
	c.cache.Clear()
}

func (c *Cache) count(result string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterStatsCache.WithLabelValues(result).Inc()
	}
}
