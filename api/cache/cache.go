// Package cache stores rendered page fragments for a short time.
package cache

import (
	"context"
	"strings"
	"time"

	"yatube/api/config"
	Logger "yatube/api/utils/log"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the fragment cache used by the handlers. A miss is reported with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

const (
	memoryCacheSize   = 512
	memoryCacheMaxTTL = 10 * time.Minute
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process LRU whose entries also honour their own ttl.
type MemoryStore struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lru: expirable.NewLRU[string, memoryEntry](memoryCacheSize, nil, memoryCacheMaxTTL),
		now: time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.lru.Remove(key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.lru.Add(key, memoryEntry{value: string(value), expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range m.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.lru.Remove(key)
		}
	}
	return nil
}

// New prefers Redis and falls back to the in-process store when it is not
// reachable.
func New(cfg *config.Config) Store {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		return NewMemoryStore()
	}
	store, err := NewRedisFromConfig(cfg)
	if err != nil {
		Logger.Log.WithError(err).Warn("could not connect to redis, using in-process cache")
		return NewMemoryStore()
	}
	return store
}
