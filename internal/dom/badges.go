package dom

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

func SyncCartBadges(doc *goquery.Document, state State) {
	doc.Find("#cart-count-badge, #offcanvas-cart-badge").SetText(strconv.Itoa(state.Totals.ItemCount))
}

func SyncWishlistBadges(doc *goquery.Document, state State) {
	doc.Find(".wishlist-count-badge, #wishlist-count-badge, #offcanvas-wishlist-badge").
		SetText(strconv.Itoa(len(state.Favorites)))
}
