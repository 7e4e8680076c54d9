package controller

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/dom"
	"github.com/ghain/storefront-backend/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPageRoutes(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	pages, err := fs.Sub(web.Pages, "pages")
	require.NoError(t, err)

	ctrl := NewPageController(pages, dom.NewRenderer(dom.Defaults()...), env.stores, env.products, env.checkout)
	env.router.GET("/", ctrl.Home)
	env.router.GET("/cart", ctrl.Cart)
	env.router.GET("/wishlist", ctrl.Wishlist)
	env.router.GET("/product", ctrl.Product)
	env.router.GET("/checkout", ctrl.Checkout)
	return env
}

func getPage(t *testing.T, env *testEnv, path string) *goquery.Document {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func seedVisitor(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	_, err := env.stores.Cart(env.scope()).Add(ctx, model.ProductSnapshot{ID: "1", Title: "مخور حرير فاخر", Price: "300.00"}, 2)
	require.NoError(t, err)
	_, err = env.stores.Favorites(env.scope()).Add(ctx, model.ProductSnapshot{ID: "2", Title: "مخور قطن مريح", Price: "250.00"})
	require.NoError(t, err)
}

func TestPageController_HomeReflectsStores(t *testing.T) {
	env := setupPageRoutes(t)
	seedVisitor(t, env)

	doc := getPage(t, env, "/")
	assert.Equal(t, "2", doc.Find("#cart-count-badge").Text())
	assert.Equal(t, "1", doc.Find("#wishlist-count-badge").Text())
	assert.True(t, doc.Find(`.tp-product-item-2[data-id="1"] .tp-product-add-cart-btn`).HasClass("in-cart"))
}

func TestPageController_CartPage(t *testing.T) {
	env := setupPageRoutes(t)
	seedVisitor(t, env)

	doc := getPage(t, env, "/cart")
	assert.Equal(t, 1, doc.Find(`.tp-cart-list tbody tr[data-id="1"]`).Length())
}

func TestPageController_WishlistPage(t *testing.T) {
	env := setupPageRoutes(t)

	doc := getPage(t, env, "/wishlist")
	style, _ := doc.Find("#wishlist-empty").Attr("style")
	assert.Equal(t, "display: block", style)

	seedVisitor(t, env)
	doc = getPage(t, env, "/wishlist")
	assert.Equal(t, 1, doc.Find("#wishlist-container .tp-product-item-2").Length())
}

func TestPageController_ProductPage(t *testing.T) {
	env := setupPageRoutes(t)

	doc := getPage(t, env, "/product?id=4")
	assert.Equal(t, "جلابية مناسبات", doc.Find("#product-title").Text())
	assert.Equal(t, "480.00 ر.ق", doc.Find("#product-price-new").Text())

	// Missing id falls back to the first product
	doc = getPage(t, env, "/product")
	assert.Equal(t, "مخور حرير فاخر", doc.Find("#product-title").Text())

	// Unknown ids leave the markup alone
	doc = getPage(t, env, "/product?id=999")
	assert.Equal(t, "اسم المنتج", doc.Find("#product-title").Text())
}

func TestPageController_CheckoutDirectBuy(t *testing.T) {
	env := setupPageRoutes(t)

	doc := getPage(t, env, "/checkout?id=2&qty=3")
	lines := doc.Find(".tp-order-info-list-desc")
	require.Equal(t, 1, lines.Length())
	assert.Contains(t, lines.Text(), "مخور قطن مريح")
	assert.Equal(t, "$750.00", doc.Find(".tp-order-info-list-subtotal span:last-child").Text())
	assert.Equal(t, "$770.00", doc.Find(".tp-order-info-list-total span:last-child").Text())

	doc = getPage(t, env, "/checkout?id=2&qty=1&shipping=local_pickup")
	assert.Equal(t, "$275.00", doc.Find(".tp-order-info-list-total span:last-child").Text())

	// Without an id the static summary stays
	doc = getPage(t, env, "/checkout")
	assert.Equal(t, "$0.00", doc.Find(".tp-order-info-list-total span:last-child").Text())
}
