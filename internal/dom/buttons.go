package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/internal/app/service"
	"golang.org/x/net/html"
)

const (
	cardSelector     = ".tp-product-item-2, .tp-product-item"
	themePrimary     = "var(--tp-theme-primary)"
	tooltipAddToCart = "إضافة للسلة"
	tooltipInCart    = "إزالة من السلة"
	detailsSaved     = " Saved"
	detailsNotSaved  = " Add Wishlist"
)

// SyncCartButtons marks the add-to-cart controls of product cards and of the
// details page according to cart membership.
func SyncCartButtons(doc *goquery.Document, state State) {
	doc.Find(".tp-product-add-cart-btn").Each(func(_ int, btn *goquery.Selection) {
		card := btn.Closest(cardSelector)
		explicit := card.AttrOr("data-id", "")
		if explicit == "" {
			explicit = btn.AttrOr("data-id", "")
		}
		id, err := service.ResolveIdentity(service.IdentityHints{
			ExplicitID: explicit,
			Link:       cardLink(card),
		}, service.CartIdentity)
		setCartButton(btn, err == nil && state.inCart(id))
	})

	details := doc.Find(".tp-product-details-add-to-cart-btn")
	if details.Length() == 0 {
		return
	}
	id := strings.TrimSpace(state.PageProductID)
	if id != "" && state.inCart(id) {
		details.SetText(tooltipInCart)
	} else {
		details.SetText(tooltipAddToCart)
	}
}

func setCartButton(btn *goquery.Selection, inCart bool) {
	icon := btn.Find("i")
	tooltip := btn.Find(".tp-product-tooltip")
	if inCart {
		btn.AddClass("in-cart")
		icon.RemoveClass("fa-cart-shopping").AddClass("fa-trash")
		tooltip.SetText(tooltipInCart)
		return
	}
	btn.RemoveClass("in-cart")
	icon.RemoveClass("fa-trash").AddClass("fa-cart-shopping")
	tooltip.SetText(tooltipAddToCart)
}

// SyncWishlistButtons sets the heart state of product cards and the saved
// state of the details page wishlist button.
func SyncWishlistButtons(doc *goquery.Document, state State) {
	doc.Find(".tp-product-add-to-wishlist-btn").Each(func(_ int, btn *goquery.Selection) {
		card := btn.Closest(".tp-product-item-2")
		if card.Length() == 0 {
			return
		}
		id, err := service.ResolveIdentity(service.IdentityHints{
			ExplicitID: card.AttrOr("data-id", ""),
			Title:      cardTitle(card),
			Price:      cardPrice(card),
		}, service.FavoriteIdentity)
		if err != nil {
			return
		}
		btn.SetAttr("data-product-id", id)
		setHeart(btn, state.isFavorite(id))
	})

	details := doc.Find(".tp-product-details-action-sm-btn.wishlist-btn").First()
	if details.Length() == 0 {
		return
	}
	id, err := service.ResolveIdentity(service.IdentityHints{
		PageID:    state.PageProductID,
		Title:     doc.Find("#product-title").First().Text(),
		Price:     doc.Find("#product-price-new").First().Text(),
		Selection: state.Selection,
	}, service.FavoriteIdentity)
	if err != nil {
		return
	}
	details.SetAttr("data-product-id", id)
	setDetailsHeart(details, state.isFavorite(id))
}

func setHeart(btn *goquery.Selection, active bool) {
	icon := btn.Find("i").First()
	if active {
		btn.AddClass("active")
		if icon.HasClass("fa-regular") {
			icon.RemoveClass("fa-regular").AddClass("fa-solid")
		} else if icon.HasClass("flaticon-heart") {
			icon.SetAttr("class", "fa-solid fa-heart")
		}
	} else {
		btn.RemoveClass("active")
		icon.RemoveClass("fa-solid").AddClass("fa-regular", "fa-heart")
	}
	paintHeartPath(btn, active)
}

func setDetailsHeart(btn *goquery.Selection, active bool) {
	label := detailsNotSaved
	if active {
		btn.AddClass("active")
		label = detailsSaved
	} else {
		btn.RemoveClass("active")
	}
	for _, n := range btn.Contents().Nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			n.Data = label
			break
		}
	}
	paintHeartPath(btn, active)
}

func paintHeartPath(btn *goquery.Selection, active bool) {
	path := btn.Find("svg path").First()
	if active {
		path.SetAttr("fill", themePrimary)
		path.SetAttr("stroke", themePrimary)
		return
	}
	path.SetAttr("fill", "none")
	path.SetAttr("stroke", "currentColor")
}

func cardTitle(card *goquery.Selection) string {
	for _, sel := range []string{".tp-product-title-2 a", ".tp-product-title a", ".tp-product-title-2", ".tp-product-title"} {
		if el := card.Find(sel).First(); el.Length() > 0 {
			return strings.TrimSpace(el.Text())
		}
	}
	return ""
}

func cardPrice(card *goquery.Selection) string {
	for _, sel := range []string{".tp-product-price-2.new-price", ".tp-product-price.new-price", ".tp-product-price-2", ".tp-product-price"} {
		if el := card.Find(sel).First(); el.Length() > 0 {
			return strings.TrimSpace(el.Text())
		}
	}
	return ""
}

func cardLink(card *goquery.Selection) string {
	return card.Find(".tp-product-title-2 a, .tp-product-title a").First().AttrOr("href", "")
}
