package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/storage"
	"github.com/ghain/storefront-backend/pkg/logger"
)

// SelectionStore holds the single product record handed from a listing page
// to the product page. It is transient: each Save replaces the previous one.
type SelectionStore struct {
	backend storage.Backend
	key     string
}

func (s *SelectionStore) Save(ctx context.Context, product model.SelectedProduct) error {
	if strings.TrimSpace(product.ID) == "" {
		return ErrIdentityUnresolved
	}
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		logger.Error("Failed to save selected product", err, map[string]interface{}{
			"key": s.key,
		})
		return err
	}
	return nil
}

// Load returns the stored selection. A missing, unreadable or corrupt value
// is reported as no selection.
func (s *SelectionStore) Load(ctx context.Context) (*model.SelectedProduct, bool) {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		logger.Warn("Selected product read failed", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return nil, false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}

	var product model.SelectedProduct
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		logger.Warn("Discarding corrupt selected product", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return nil, false
	}
	if product.ID == "" {
		return nil, false
	}
	return &product, true
}
