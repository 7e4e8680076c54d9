package service

import (
	"errors"
	"net/url"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/pkg/util"
)

var ErrIdentityUnresolved = errors.New("product identity could not be resolved")

// IdentityPolicy selects which fallbacks ResolveIdentity may use.
type IdentityPolicy int

const (
	// CartIdentity accepts only identifiers that came from markup or URLs.
	CartIdentity IdentityPolicy = iota
	// FavoriteIdentity additionally accepts the selected-product handoff and
	// the title+price slug.
	FavoriteIdentity
)

// IdentityHints is what a clicked element tells us about its product.
type IdentityHints struct {
	ExplicitID string                 `json:"id"`      // data-id on the card or button
	Link       string                 `json:"link"`    // href of the card's title link
	PageID     string                 `json:"page_id"` // product page id; set only for the details page's own buttons
	Title      string                 `json:"title"`
	Price      string                 `json:"price"`
	Selection  *model.SelectedProduct `json:"-"`
}

// ResolveIdentity applies, in order: explicit id, the id query parameter of
// the card link, the product page id, then for favorites the
// selected-product handoff when its title matches and finally the
// title+price slug. When nothing applies it fails with ErrIdentityUnresolved.
func ResolveIdentity(h IdentityHints, policy IdentityPolicy) (string, error) {
	if id := strings.TrimSpace(h.ExplicitID); id != "" {
		return id, nil
	}
	if id := idFromLink(h.Link); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(h.PageID); id != "" {
		return id, nil
	}
	if policy != FavoriteIdentity {
		return "", ErrIdentityUnresolved
	}

	title := strings.TrimSpace(h.Title)
	if h.Selection != nil && h.Selection.ID != "" && title != "" && h.Selection.Title == title {
		return h.Selection.ID, nil
	}
	if slug := util.FavoriteSlug(title, strings.TrimSpace(h.Price)); slug != "" {
		return slug, nil
	}
	return "", ErrIdentityUnresolved
}

func idFromLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("id"))
}
