package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// maxCacheAge is how long a cached base series stays valid.
const maxCacheAge = 7 * 24 * time.Hour

// cachedBaseSeries returns the base series for a dataset, consulting the series store first.
func cachedBaseSeries(ds *schema.Dataset, mgr contract.CacheManager) (BaseSeries, error) {
	if mgr == nil {
		return BuildBaseSeries(ds)
	}
	store := mgr.GetSeriesStore()
	if store == nil {
		// Fallback to direct computation
		return BuildBaseSeries(ds)
	}

	key := generateCacheKey(ds)

	// Check for cache hit
	if result, ok := checkCacheHit(store, key); ok {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ds, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) (BaseSeries, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return BaseSeries{}, false
	}

	if version != currentCacheVersion {
		return BaseSeries{}, false
	}
	if time.Since(time.Unix(ts, 0)) > maxCacheAge {
		return BaseSeries{}, false
	}

	var result BaseSeries
	if err := json.Unmarshal(data, &result); err != nil {
		return BaseSeries{}, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(ds *schema.Dataset, store contract.CacheStore, key string) (BaseSeries, error) {
	result, err := BuildBaseSeries(ds)
	if err != nil {
		return BaseSeries{}, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Cannot store series in cache", err)
		}
	}

	return result, nil
}

// generateCacheKey hashes the dataset fingerprint with the resolved variant ids.
func generateCacheKey(ds *schema.Dataset) string {
	parts := make([]string, 0, len(schema.AllVariants)+1)
	parts = append(parts, ds.Fingerprint)
	for _, k := range schema.AllVariants {
		parts = append(parts, fmt.Sprintf("%s=%s", k, ds.IDs[k]))
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(parts, ":"))))
}
