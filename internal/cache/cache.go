package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/peterbourgon/diskv"
	"github.com/ygelfand/animctl/internal/config"
)

var (
	ErrDisabled = errors.New("caching is disabled")
	ErrExpired  = errors.New("cache entry expired")
)

type CacheEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"` // Unix timestamp, 0 for infinite
}

type Manager struct {
	dv       *diskv.Diskv
	disabled bool
}

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Get returns the global cache manager instance initialized with the given path
func Get(path string) (*Manager, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager != nil {
		return globalManager, nil
	}

	m, err := New(path)
	if err != nil {
		return nil, err
	}
	m.disabled = config.Get().NoCache
	globalManager = m
	return globalManager, nil
}

// New creates a standalone manager rooted at path.
func New(path string) (*Manager, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	flatTransform := func(s string) []string {
		return []string{}
	}

	dv := diskv.New(diskv.Options{
		BasePath:     path,
		Transform:    flatTransform,
		CacheSizeMax: 4 * 1024 * 1024, // frames are a few KB each
	})
	return &Manager{dv: dv}, nil
}

// SetDisabled turns every read into a miss and every write into a no-op.
func (m *Manager) SetDisabled(disabled bool) { m.disabled = disabled }

// HashKey converts a potentially unsafe string into a safe MD5 hash for disk storage
func (m *Manager) HashKey(key string) string {
	h := md5.New()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateKey creates a unique, safe key based on an operation and its parameters.
// It uses reflection to automatically determine the "op" name from the params type if possible.
func (m *Manager) GenerateKey(namespace string, params any) string {
	op := "default"
	if params != nil {
		t := reflect.TypeOf(params)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		op = t.String()
	}
	p, err := json.Marshal(params)
	if err != nil {
		return m.HashKey(fmt.Sprintf("%s:%s:%#v", namespace, op, params))
	}
	return m.HashKey(fmt.Sprintf("%s:%s:%s", namespace, op, string(p)))
}

// Set stores data in the cache under the given key with a TTL.
func (m *Manager) Set(key string, val any, ttl time.Duration) error {
	if m.disabled {
		return nil
	}
	safeKey := m.HashKey(key)
	slog.Log(context.Background(), config.LevelTrace, "Cache: SET", "key", key, "safeKey", safeKey, "ttl", ttl)
	var data []byte
	var err error

	switch v := val.(type) {
	case []byte:
		// Raw bytes are stored as a JSON string so the entry stays valid JSON.
		data, err = json.Marshal(string(v))
	default:
		data, err = json.Marshal(val)
	}
	if err != nil {
		return err
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	entryData, err := json.Marshal(CacheEntry{Value: data, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}

	return m.dv.Write(safeKey, entryData)
}

// Get retrieves cached data.
func (m *Manager) Get(key string, val any) error {
	if m.disabled {
		return ErrDisabled
	}
	safeKey := m.HashKey(key)
	slog.Log(context.Background(), config.LevelTrace, "Cache: GET", "key", key, "safeKey", safeKey)
	entryData, err := m.dv.Read(safeKey)
	if err != nil {
		return err
	}

	var entry CacheEntry
	if err := json.Unmarshal(entryData, &entry); err != nil {
		return err
	}

	if entry.ExpiresAt > 0 && time.Now().Unix() > entry.ExpiresAt {
		slog.Log(context.Background(), config.LevelTrace, "Cache: EXPIRED", "key", key, "safeKey", safeKey)
		_ = m.dv.Erase(safeKey)
		return ErrExpired
	}

	if b, ok := val.(*[]byte); ok {
		var s string
		if err := json.Unmarshal(entry.Value, &s); err != nil {
			return err
		}
		*b = []byte(s)
		return nil
	}

	return json.Unmarshal(entry.Value, val)
}

// WithCache is a helper that tries to get data from cache first, otherwise calls the fetcher
func WithCache[T any](m *Manager, key string, ttl time.Duration, val *T, fetcher func() (*T, error)) error {
	if ttl > 0 {
		if err := m.Get(key, val); err == nil {
			return nil
		}
	}
	fetched, err := fetcher()
	if err != nil {
		return err
	}

	if fetched != nil {
		*val = *fetched
		if ttl > 0 {
			return m.Set(key, fetched, ttl)
		}
	}

	return nil
}

// AutoCache automatically generates a key based on the request parameters type.
func AutoCache[T any](m *Manager, namespace string, req any, ttl time.Duration, val *T, fetcher func() (*T, error)) error {
	key := m.GenerateKey(namespace, req)
	return WithCache(m, key, ttl, val, fetcher)
}

// Delete removes a key from the cache
func (m *Manager) Delete(key string) error {
	if m.disabled {
		return nil
	}
	return m.dv.Erase(m.HashKey(key))
}

// Purge erases every entry and returns how many were removed.
func (m *Manager) Purge() (int, error) {
	var keys []string
	for k := range m.dv.Keys(nil) {
		keys = append(keys, k)
	}
	for i, k := range keys {
		if err := m.dv.Erase(k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Count returns the number of stored entries.
func (m *Manager) Count() int {
	n := 0
	for range m.dv.Keys(nil) {
		n++
	}
	return n
}
