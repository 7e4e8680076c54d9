package service

import (
	"context"
	"strings"
	"time"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/storage"
	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/ghain/storefront-backend/pkg/util"
)

// FavoritesStore owns one visitor's wishlist slot.
type FavoritesStore struct {
	slot    *storage.Slot[model.FavoriteItem]
	emitter emitter
	now     func() time.Time
}

func (s *FavoritesStore) List(ctx context.Context) []model.FavoriteItem {
	return s.slot.Load(ctx)
}

func (s *FavoritesStore) Count(ctx context.Context) int {
	return len(s.List(ctx))
}

func (s *FavoritesStore) IsFavorite(ctx context.Context, id string) bool {
	return indexOfFavorite(s.List(ctx), id) >= 0
}

// FavoriteID is the identifier a snapshot is saved under: its explicit id,
// else the slug of its title and displayed price.
func FavoriteID(snapshot model.ProductSnapshot) (string, error) {
	if id := strings.TrimSpace(snapshot.ID); id != "" {
		return id, nil
	}
	if slug := util.FavoriteSlug(strings.TrimSpace(snapshot.Title), strings.TrimSpace(snapshot.Price)); slug != "" {
		return slug, nil
	}
	return "", ErrIdentityUnresolved
}

// Add saves the snapshot unless an item with the same id is already there.
// It reports whether the wishlist changed.
func (s *FavoritesStore) Add(ctx context.Context, snapshot model.ProductSnapshot) (bool, error) {
	id, err := FavoriteID(snapshot)
	if err != nil {
		return false, err
	}

	items := s.List(ctx)
	if indexOfFavorite(items, id) >= 0 {
		return false, nil
	}
	items = append(items, model.FavoriteItem{
		ID:      id,
		Title:   strings.TrimSpace(snapshot.Title),
		Price:   strings.TrimSpace(snapshot.Price),
		Image:   snapshot.Image,
		AddedAt: s.now().UnixMilli(),
	})
	if err := s.save(ctx, items); err != nil {
		return false, err
	}

	logger.Info("Item added to favorites", map[string]interface{}{
		"key":        s.slot.Key(),
		"product_id": id,
	})
	return true, nil
}

func (s *FavoritesStore) Remove(ctx context.Context, id string) error {
	items := s.List(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, kept)
}

// Toggle flips membership of the snapshot's id and returns the new state.
func (s *FavoritesStore) Toggle(ctx context.Context, snapshot model.ProductSnapshot) (bool, error) {
	id, err := FavoriteID(snapshot)
	if err != nil {
		return false, err
	}
	if s.IsFavorite(ctx, id) {
		return false, s.Remove(ctx, id)
	}
	snapshot.ID = id
	if _, err := s.Add(ctx, snapshot); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the wishlist. The slot keeps an empty list.
func (s *FavoritesStore) Clear(ctx context.Context) error {
	return s.save(ctx, []model.FavoriteItem{})
}

func (s *FavoritesStore) save(ctx context.Context, items []model.FavoriteItem) error {
	if err := s.slot.Save(ctx, items); err != nil {
		logger.Error("Failed to save favorites", err, map[string]interface{}{
			"key": s.slot.Key(),
		})
		return err
	}
	s.emitter.emit(len(items))
	return nil
}

func indexOfFavorite(items []model.FavoriteItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
