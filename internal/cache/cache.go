// Package cache derives result-cache keys and holds the no-op cache.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"showfinder/internal/domain"
)

// Key combines the catalog fingerprint, the result limit and the raw query text.
// The query is used verbatim: case and whitespace differences are distinct keys.
func Key(fingerprint string, limit int, query string) string {
	h := sha1.Sum([]byte(fingerprint + "\x00" + strconv.Itoa(limit) + "\x00" + query))
	return fingerprint + ":" + hex.EncodeToString(h[:8])
}

// Nop never stores anything.
type Nop struct{}

var _ domain.Cache = Nop{}

func (Nop) Get(context.Context, string) (domain.Result, bool, error) {
	return domain.Result{}, false, nil
}

func (Nop) Set(context.Context, string, domain.Result, time.Duration) error { return nil }
