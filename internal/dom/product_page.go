package dom

import (
	"github.com/PuerkitoBio/goquery"
)

const currencySuffix = " ر.ق"

// SyncProductDetails fills the details page from state.Product.
func SyncProductDetails(doc *goquery.Document, state State) {
	p := state.Product
	if p == nil {
		return
	}

	doc.Find("#product-title").SetText(p.Title)
	doc.Find("#product-category").SetText(p.Category)
	doc.Find("#product-desc").SetText(p.Description)
	doc.Find("#product-price-new").SetText(p.Price + currencySuffix)
	doc.Find("#product-price-old").SetText(p.OldPrice + currencySuffix)
	doc.Find("#breadcrumb-product").SetText(p.Title)

	mainImage := doc.Find("#product-image-main")
	mainImage.SetAttr("src", p.Image)

	if len(p.Images) > 0 {
		doc.Find("#product-thumb-1").SetAttr("src", p.Images[0])
		mainImage.SetAttr("src", p.Images[0])
	}
	if len(p.Images) > 1 {
		doc.Find("#product-thumb-2").SetAttr("src", p.Images[1])
		doc.Find("#product-image-main-2").SetAttr("src", p.Images[1])
	}
}
