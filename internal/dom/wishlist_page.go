package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/internal/app/model"
)

const wishlistCardTemplate = `<div class="col-xl-3 col-lg-4 col-md-6 col-sm-6">
	<div class="tp-product-item-2 mb-40" data-id="%[1]s">
		<div class="tp-product-thumb-2 p-relative z-index-1 fix w-img">
			<a href="%[2]s" class="product-link" data-id="%[1]s"><img src="%[3]s" alt="%[4]s"/></a>
			<div class="tp-product-action-2 tp-product-action-blackStyle">
				<div class="tp-product-action-item-2 d-flex flex-column">
					<button type="button" class="tp-product-action-btn-2 tp-product-add-cart-btn" data-id="%[1]s">
						<i class="fa-solid fa-cart-shopping"></i>
						<span class="tp-product-tooltip tp-product-tooltip-right">إضافة للسلة</span>
					</button>
					<button type="button" class="tp-product-action-btn-2 tp-product-remove-wishlist-btn" data-id="%[1]s">
						<i class="fa-solid fa-trash"></i>
						<span class="tp-product-tooltip tp-product-tooltip-right">إزالة</span>
					</button>
				</div>
			</div>
		</div>
		<div class="tp-product-content-2 pt-15">
			<h3 class="tp-product-title-2"><a href="%[2]s" class="product-link" data-id="%[1]s">%[4]s</a></h3>
			<div class="tp-product-price-wrapper-2"><span class="tp-product-price-2 new-price">%[5]s</span></div>
		</div>
	</div>
</div>`

// SyncWishlistGrid rebuilds the wishlist page cards and toggles the empty
// state and bulk actions.
func SyncWishlistGrid(doc *goquery.Document, state State) {
	container := doc.Find("#wishlist-container")
	if container.Length() == 0 {
		return
	}
	empty := doc.Find("#wishlist-empty")
	actions := doc.Find("#wishlist-actions")

	container.Empty()
	if len(state.Favorites) == 0 {
		empty.SetAttr("style", "display: block")
		actions.AddClass("d-none")
		return
	}
	empty.SetAttr("style", "display: none")
	actions.RemoveClass("d-none")

	var cards strings.Builder
	for _, item := range state.Favorites {
		cards.WriteString(wishlistCard(item))
	}
	container.AppendHtml(cards.String())
}

func wishlistCard(item model.FavoriteItem) string {
	return fmt.Sprintf(wishlistCardTemplate,
		cleanText(item.ID),
		productHref(item.ID),
		cleanURL(item.Image),
		cleanText(item.Title),
		cleanText(item.Price),
	)
}
