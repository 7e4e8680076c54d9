// Package dom rewrites storefront pages so they reflect a visitor's stored
// cart and wishlist before the page is served. Each synchronizer looks up its
// targets by class or id, skips silently when they are absent, and yields the
// same markup when run again over unchanged state.
package dom

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/pkg/logger"
)

// State is the snapshot a page is synchronized against.
type State struct {
	Cart      []model.LineItem
	Totals    model.CartTotals
	Favorites []model.FavoriteItem
	// PageProductID is the id query parameter of the requested page.
	PageProductID string
	Selection     *model.SelectedProduct
	// Product is rendered into the details page when set.
	Product *model.Product
	// Order is rendered into the checkout summary when set.
	Order *service.OrderSummary
}

func (s State) inCart(id string) bool {
	for _, item := range s.Cart {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (s State) isFavorite(id string) bool {
	for _, item := range s.Favorites {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Synchronizer updates one family of elements in doc to match state.
type Synchronizer interface {
	Name() string
	Sync(doc *goquery.Document, state State)
}

type syncFunc struct {
	name string
	fn   func(doc *goquery.Document, state State)
}

func (s syncFunc) Name() string { return s.name }
func (s syncFunc) Sync(doc *goquery.Document, state State) { s.fn(doc, state) }

// NewSynchronizer wraps fn as a named Synchronizer.
func NewSynchronizer(name string, fn func(doc *goquery.Document, state State)) Synchronizer {
	return syncFunc{name: name, fn: fn}
}

// Defaults returns the storefront synchronizers. Generated fragments come
// first so that button states are applied to them too.
func Defaults() []Synchronizer {
	return []Synchronizer{
		NewSynchronizer("cart_badges", SyncCartBadges),
		NewSynchronizer("wishlist_badges", SyncWishlistBadges),
		NewSynchronizer("cart_table", SyncCartTable),
		NewSynchronizer("wishlist_grid", SyncWishlistGrid),
		NewSynchronizer("product_details", SyncProductDetails),
		NewSynchronizer("order_summary", SyncOrderSummary),
		NewSynchronizer("cart_buttons", SyncCartButtons),
		NewSynchronizer("wishlist_buttons", SyncWishlistButtons),
	}
}

// Renderer runs a fixed list of synchronizers over HTML pages.
type Renderer struct {
	syncs []Synchronizer
}

func NewRenderer(syncs ...Synchronizer) *Renderer {
	if len(syncs) == 0 {
		syncs = Defaults()
	}
	return &Renderer{syncs: syncs}
}

// Apply runs every synchronizer over doc.
func (r *Renderer) Apply(doc *goquery.Document, state State) {
	for _, s := range r.syncs {
		s.Sync(doc, state)
	}
}

// Render parses page, applies state and returns the resulting HTML.
func (r *Renderer) Render(page io.Reader, state State) (string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		logger.Error("Failed to parse page", err)
		return "", err
	}
	r.Apply(doc, state)
	return doc.Html()
}

// RenderString is Render over an in-memory page.
func (r *Renderer) RenderString(page string, state State) (string, error) {
	return r.Render(strings.NewReader(page), state)
}
