// Package cache keeps computed analysis payloads for a fixed TTL, keyed by a
// fingerprint of the request that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const keyPrefix = "esoccer:analysis:"

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esoccer_cache_hits_total",
		Help: "Analysis cache hits by kind",
	}, []string{"kind"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esoccer_cache_misses_total",
		Help: "Analysis cache misses by kind",
	}, []string{"kind"})
)

// Store is an expiring key-value store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Entry is what gets stored under a fingerprint
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Key fingerprints a request: kind plus its parameters, in order.
func Key(kind string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return keyPrefix + kind + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

// Load decodes the entry under key into dst. ok is false on a miss.
func Load(ctx context.Context, s Store, kind, key string, dst any) (entry Entry, ok bool, err error) {
	data, found, err := s.Get(ctx, key)
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get %s: %w", kind, err)
	}
	if !found {
		cacheMisses.WithLabelValues(kind).Inc()
		return Entry{}, false, nil
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("cache decode %s: %w", kind, err)
	}
	if err := json.Unmarshal(entry.Payload, dst); err != nil {
		return Entry{}, false, fmt.Errorf("cache decode %s payload: %w", kind, err)
	}
	cacheHits.WithLabelValues(kind).Inc()
	return entry, true, nil
}

// Save encodes v with the current time and stores it under key for ttl
func Save(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	data, err := json.Marshal(Entry{Payload: payload, StoredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}
	return s.Set(ctx, key, data, ttl)
}
