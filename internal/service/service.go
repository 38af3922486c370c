package service

import (
	"errors"
	"time"

	"fenview/internal/cache"
	"fenview/internal/storage"
)

const (
	TokenTTL = 24 * time.Hour
)

var (
	ErrStorageDisabled = errors.New("storage disabled")
	ErrNotFound        = errors.New("position not found")
	ErrUnknownFormat   = errors.New("unknown render format")
)

// Service coordinates decoding, rendering, caching, persistence and tokens.
// store and cache are optional.
type Service struct {
	store     *storage.Store
	cache     *cache.Cache
	jwtSecret []byte
}

func New(store *storage.Store, c *cache.Cache, jwtSecret []byte) *Service {
	return &Service{
		store:     store,
		cache:     c,
		jwtSecret: jwtSecret,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// GetCacheHealth returns the cache component status
func (s *Service) GetCacheHealth() string {
	if s.cache == nil {
		return "disabled"
	}
	return "ok"
}
