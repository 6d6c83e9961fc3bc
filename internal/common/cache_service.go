package common

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache, used when no Redis is configured.
type CacheService struct {
	cache  *cache.Cache
	takeMu sync.Mutex
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(_ context.Context, key string, value any, duration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}
	cs.cache.Set(key, data, duration)
	return nil
}

func (cs *CacheService) Get(_ context.Context, key string, dest any) (bool, error) {
	val, found := cs.cache.Get(key)
	if !found {
		return false, nil
	}
	return decodeEntry(key, val, dest)
}

func (cs *CacheService) Take(_ context.Context, key string, dest any) (bool, error) {
	cs.takeMu.Lock()
	val, found := cs.cache.Get(key)
	if found {
		cs.cache.Delete(key)
	}
	cs.takeMu.Unlock()
	if !found {
		return false, nil
	}
	return decodeEntry(key, val, dest)
}

func decodeEntry(key string, val any, dest any) (bool, error) {
	data, ok := val.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cache entry type %T for %s", val, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value for %s: %w", key, err)
	}
	return true, nil
}

func (cs *CacheService) Delete(_ context.Context, key string) error {
	cs.cache.Delete(key)
	return nil
}

func (cs *CacheService) Ping(context.Context) error {
	return nil
}

// Close is a no-op for the in-memory cache
func (cs *CacheService) Close() error {
	return nil
}

// ItemCount reports the number of live entries, expired ones included until cleanup.
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}
