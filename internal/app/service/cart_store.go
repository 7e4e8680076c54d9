package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/storage"
	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds the quantity of a single cart line.
const MaxLineQuantity = 9999

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 9999")
)

// CartStore owns one visitor's cart slot. Every mutation reads the whole
// list, changes it and writes it back; concurrent writers are not merged and
// the last write wins.
type CartStore struct {
	slot    *storage.Slot[model.LineItem]
	emitter emitter
}

func (s *CartStore) List(ctx context.Context) []model.LineItem {
	return s.slot.Load(ctx)
}

func (s *CartStore) Contains(ctx context.Context, id string) bool {
	return indexOfLine(s.List(ctx), id) >= 0
}

// Add merges qty into the line with the snapshot's id, or appends a new line.
// A merge that would push the line past MaxLineQuantity is rejected.
func (s *CartStore) Add(ctx context.Context, snapshot model.ProductSnapshot, qty int) ([]model.LineItem, error) {
	if qty <= 0 || qty > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	id := strings.TrimSpace(snapshot.ID)
	if id == "" {
		return nil, ErrIdentityUnresolved
	}

	items := s.List(ctx)
	if i := indexOfLine(items, id); i >= 0 {
		if items[i].Quantity > MaxLineQuantity-qty {
			return nil, ErrInvalidQuantity
		}
		items[i].Quantity += qty
	} else {
		items = append(items, model.LineItem{
			ID:       id,
			Title:    strings.TrimSpace(snapshot.Title),
			Price:    util.ParsePrice(snapshot.Price),
			Image:    snapshot.Image,
			Quantity: qty,
		})
	}

	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	logger.Info("Item added to cart", map[string]interface{}{
		"key":        s.slot.Key(),
		"product_id": id,
		"quantity":   qty,
	})
	return items, nil
}

// Remove drops the line with id. The list is written back even when the id
// was not present.
func (s *CartStore) Remove(ctx context.Context, id string) error {
	items := s.List(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, kept)
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown ids are ignored.
func (s *CartStore) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, id)
	}
	if qty > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	items := s.List(ctx)
	i := indexOfLine(items, id)
	if i < 0 {
		logger.Debug("Quantity update for item not in cart", map[string]interface{}{
			"key":        s.slot.Key(),
			"product_id": id,
		})
		return nil
	}
	items[i].Quantity = qty
	return s.save(ctx, items)
}

// Toggle adds the product with qty when it is absent and removes it
// otherwise. It reports whether the product is in the cart afterwards.
func (s *CartStore) Toggle(ctx context.Context, snapshot model.ProductSnapshot, qty int) (bool, error) {
	id := strings.TrimSpace(snapshot.ID)
	if id == "" {
		return false, ErrIdentityUnresolved
	}
	if s.Contains(ctx, id) {
		return false, s.Remove(ctx, id)
	}
	if _, err := s.Add(ctx, snapshot, qty); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CartStore) Totals(ctx context.Context) model.CartTotals {
	return ComputeTotals(s.List(ctx))
}

// Clear deletes the cart slot.
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.slot.Clear(ctx); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"key": s.slot.Key(),
		})
		return err
	}
	s.emitter.emit(0)
	return nil
}

func (s *CartStore) save(ctx context.Context, items []model.LineItem) error {
	if err := s.slot.Save(ctx, items); err != nil {
		logger.Error("Failed to save cart", err, map[string]interface{}{
			"key": s.slot.Key(),
		})
		return err
	}
	s.emitter.emit(ComputeTotals(items).ItemCount)
	return nil
}

// ComputeTotals sums quantities and price times quantity over items. Lines
// whose quantity is outside 1..MaxLineQuantity can only come from a slot
// written outside the store and are not counted.
func ComputeTotals(items []model.LineItem) model.CartTotals {
	totals := model.CartTotals{MoneyTotal: decimal.Zero}
	for _, item := range items {
		if item.Quantity < 1 || item.Quantity > MaxLineQuantity {
			continue
		}
		totals.ItemCount += item.Quantity
		totals.MoneyTotal = totals.MoneyTotal.Add(item.Subtotal())
	}
	return totals
}

func indexOfLine(items []model.LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
