package storage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ghain/storefront-backend/pkg/logger"
)

// Codec maps a list to and from the single string stored in a slot.
type Codec[T any] struct{}

func (Codec[T]) Encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode never fails: a blank or corrupt value decodes to an empty list.
func (Codec[T]) Decode(raw string) []T {
	if strings.TrimSpace(raw) == "" {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("Discarding corrupt storage value", map[string]interface{}{
			"error": err.Error(),
		})
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Slot binds a backend key to a codec.
type Slot[T any] struct {
	backend Backend
	key     string
	codec   Codec[T]
}

func NewSlot[T any](backend Backend, key string) *Slot[T] {
	return &Slot[T]{backend: backend, key: key}
}

func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the stored list. Missing values, corrupt values and backend
// read failures all come back as an empty list.
func (s *Slot[T]) Load(ctx context.Context) []T {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		logger.Warn("Storage read failed, treating slot as empty", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return []T{}
	}
	if !ok {
		return []T{}
	}
	return s.codec.Decode(raw)
}

// Save overwrites the slot with the full list.
func (s *Slot[T]) Save(ctx context.Context, items []T) error {
	raw, err := s.codec.Encode(items)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key, raw)
}

// Clear removes the slot entirely.
func (s *Slot[T]) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}
