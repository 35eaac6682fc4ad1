package cache

import (
	"fmt"
	"time"
)

// Options selects and configures a cache store
type Options struct {
	Store    string // memory, disk, layered, redis
	Dir      string
	TTL      time.Duration
	RedisURL string
}

// New builds the cache named by opts.Store
func New(opts Options) (Cache, error) {
	switch opts.Store {
	case "memory":
		return NewMemoryCache(opts.TTL, 10*time.Minute), nil
	case "disk", "":
		return NewDiskCache(opts.Dir, opts.TTL), nil
	case "layered":
		return NewLayeredCache(opts.TTL, opts.Dir, opts.TTL), nil
	case "redis":
		return NewRedisCache(opts.RedisURL, opts.TTL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, opts.Store)
	}
}
