package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Service defines cache operations for generated analysis payloads
type Service interface {
	Get(ctx context.Context, kind, key string) ([]byte, bool)
	Set(ctx context.Context, kind, key string, payload []byte) error
	Clear(ctx context.Context) error
}

// Cache implements caching of structured analysis results. Chat
// responses are never cached; they depend on live system state.
type Cache struct {
	enabled bool
	cache   *cache.Cache
	logger  *logrus.Logger
	metrics *middleware.Metrics
	maxSize int
}

// NewCache creates a new cache service
func NewCache(cfg *config.Config, logger *logrus.Logger, metrics *middleware.Metrics) Service {
	if !cfg.Cache.Enabled {
		return &Cache{enabled: false}
	}

	return &Cache{
		enabled: true,
		cache:   cache.New(cfg.Cache.TTL, cfg.Cache.TTL*2),
		logger:  logger,
		metrics: metrics,
		maxSize: cfg.Cache.MaxSize,
	}
}

// Get retrieves a cached payload
func (c *Cache) Get(ctx context.Context, kind, key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	if val, found := c.cache.Get(c.generateKey(kind, key)); found {
		entry := val.(*entry)
		c.logger.WithFields(logrus.Fields{
			"kind": kind,
			"key":  key,
			"age":  time.Since(entry.createdAt),
		}).Debug("Cache hit")
		if c.metrics != nil {
			c.metrics.RecordCacheHit()
		}
		return entry.payload, true
	}

	if c.metrics != nil {
		c.metrics.RecordCacheMiss()
	}
	return nil, false
}

// Set stores a payload in cache
func (c *Cache) Set(ctx context.Context, kind, key string, payload []byte) error {
	if !c.enabled {
		return nil
	}

	if c.cache.ItemCount() >= c.maxSize {
		c.logger.Warn("Cache size limit reached, clearing old entries")
		c.cache.DeleteExpired()
	}

	c.cache.SetDefault(c.generateKey(kind, key), &entry{
		payload:   payload,
		createdAt: time.Now(),
	})
	c.logger.WithFields(logrus.Fields{
		"kind": kind,
		"key":  key,
	}).Debug("Payload cached")

	return nil
}

// Clear removes all cached entries
func (c *Cache) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	c.cache.Flush()
	c.logger.Info("Cache cleared")
	return nil
}

type entry struct {
	payload   []byte
	createdAt time.Time
}

// generateKey creates a unique cache key
func (c *Cache) generateKey(kind, key string) string {
	data := fmt.Sprintf("%s:%s", kind, key)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
