// Package storage holds the string-keyed slots that stand in for browser
// local storage: one serialized value per (session, key), last write wins.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Fixed slot names.
const (
	CartKey      = "ghain_cart"
	FavoritesKey = "ghain_favorites"
	SelectionKey = "ghain_selected_product"
)

// Backend stores opaque string values under string keys. Implementations
// perform no merging: Set overwrites whatever was stored before.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key qualifies a slot name with the storage prefix and the visitor scope.
func Key(prefix, scope, name string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, scope, name)
}

// MemoryBackend keeps slots in process memory. Used in development and tests.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.slots[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[key] = value
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, key)
	return nil
}

// Len reports how many slots are held.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.slots)
}
