package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ErrUnknownStore is returned by New for an unsupported store name
var ErrUnknownStore = errors.New("unknown cache store")

// Key generates a cache key for an identifier within a namespace
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "factview:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
