package cache

import "time"

// Cache stores already encoded values, e.g. JSON analytics reports.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) bool
	Clear()
}

var _ Cache = Noop{}

// Noop never stores anything, used when caching is disabled.
type Noop struct{}

func (Noop) Get(string) ([]byte, bool) {
	return nil, false
}

func (Noop) Set(string, []byte, time.Duration) bool {
	return false
}

func (Noop) Clear() {}
