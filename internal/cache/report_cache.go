package cache

import (
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

var _ Cache = (*ReportCache)(nil)

// ReportCache is an in-memory cache for computed reports, backed by freecache.
// Freecache is safe for concurrent use, so no extra locking is done here.
type ReportCache struct {
	mainCache *freecache.Cache
}

// NewReportCache creates a cache of the given size. Freecache enforces
// a minimum size of 512KB, smaller values are bumped to it.
func NewReportCache(cacheSizeMegabytes int) *ReportCache {
	return &ReportCache{
		mainCache: freecache.NewCache(cacheSizeMegabytes * megabyte),
	}
}

// New returns a ReportCache, or a Noop cache when ttl disables caching.
func New(cacheSizeMegabytes int, ttl time.Duration) Cache {
	if ttl <= 0 || cacheSizeMegabytes <= 0 {
		return Noop{}
	}
	return NewReportCache(cacheSizeMegabytes)
}

func (rc *ReportCache) Get(key string) ([]byte, bool) {
	value, err := rc.mainCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (rc *ReportCache) Set(key string, value []byte, ttl time.Duration) bool {
	expireSeconds := int(ttl / time.Second)
	if expireSeconds <= 0 {
		return false
	}
	if err := rc.mainCache.Set([]byte(key), value, expireSeconds); err != nil {
		log.Debugf("report cache: set [%s]: %s", key, err)
		return false
	}
	return true
}

func (rc *ReportCache) Clear() {
	rc.mainCache.Clear()
}
