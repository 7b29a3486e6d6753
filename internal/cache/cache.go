package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Cache stores serialized analysis payloads
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a product URL. Scheme and host are
// case-folded and fragments and trailing slashes dropped, so trivially
// different spellings of the same page share an entry.
func Key(productURL string) string {
	canonical := strings.TrimSpace(productURL)
	if u, err := url.Parse(canonical); err == nil && u.Host != "" {
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		u.Path = strings.TrimRight(u.Path, "/")
		canonical = u.String()
	}

	hash := sha256.Sum256([]byte(canonical))
	return "revsum:v1:" + hex.EncodeToString(hash[:])
}
