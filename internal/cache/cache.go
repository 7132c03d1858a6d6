// Package cache stores segmentation results in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "fastbunkai:v1:"

// Key derives a cache key from the text being segmented
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(hash[:])
}
