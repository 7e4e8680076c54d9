package controller

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/internal/dom"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// defaultProductID is shown on the details page when no id is given.
const defaultProductID = "1"

// PageController serves storefront pages already synchronized with the
// visitor's cart and wishlist.
type PageController struct {
	pages    fs.FS
	renderer *dom.Renderer
	stores   *service.StoreFactory
	products service.ProductService
	checkout service.CheckoutService
}

func NewPageController(pages fs.FS, renderer *dom.Renderer, stores *service.StoreFactory, products service.ProductService, checkout service.CheckoutService) *PageController {
	return &PageController{
		pages:    pages,
		renderer: renderer,
		stores:   stores,
		products: products,
		checkout: checkout,
	}
}

// Home
// GET /
func (ctrl *PageController) Home(c *gin.Context) {
	ctrl.serve(c, "index.html", nil)
}

// Cart
// GET /cart
func (ctrl *PageController) Cart(c *gin.Context) {
	ctrl.serve(c, "cart.html", nil)
}

// Wishlist
// GET /wishlist
func (ctrl *PageController) Wishlist(c *gin.Context) {
	ctrl.serve(c, "wishlist.html", nil)
}

// Product renders the details page for ?id=, falling back to the first
// product. An unknown id leaves the page markup as it is.
// GET /product
func (ctrl *PageController) Product(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Query("id")
	if id == "" {
		id = defaultProductID
	}

	ctrl.serve(c, "product.html", func(state *dom.State) {
		state.PageProductID = id
		product, err := ctrl.products.GetProductByID(id)
		if err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				log.Warn("Product page requested for unknown product", map[string]interface{}{
					"product_id": id,
				})
			} else {
				log.Error("Failed to load product for page", err, map[string]interface{}{
					"product_id": id,
				})
			}
			return
		}
		state.Product = product
	})
}

// Checkout renders the direct-buy summary for ?id=&qty=&shipping=. Without
// an id the static summary is kept.
// GET /checkout
func (ctrl *PageController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ctrl.serve(c, "checkout.html", func(state *dom.State) {
		id := c.Query("id")
		if id == "" {
			return
		}
		option := service.ShippingOption(c.DefaultQuery("shipping", string(service.ShippingFlatRate)))
		summary, err := ctrl.checkout.DirectBuySummary(id, c.Query("qty"), option)
		if err != nil {
			log.Warn("Checkout page requested for unknown product", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			return
		}
		state.Order = summary
	})
}

func (ctrl *PageController) serve(c *gin.Context, name string, customize func(state *dom.State)) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	items := ctrl.stores.Cart(scope).List(ctx)
	state := dom.State{
		Cart:          items,
		Totals:        service.ComputeTotals(items),
		Favorites:     ctrl.stores.Favorites(scope).List(ctx),
		PageProductID: c.Query("id"),
	}
	if selection, found := ctrl.stores.Selection(scope).Load(ctx); found {
		state.Selection = selection
	}
	if customize != nil {
		customize(&state)
	}

	file, err := ctrl.pages.Open(name)
	if err != nil {
		log.Error("Page template missing", err, map[string]interface{}{
			"page": name,
		})
		c.String(http.StatusNotFound, "page not found")
		return
	}
	defer file.Close()

	html, err := ctrl.renderer.Render(file, state)
	if err != nil {
		log.Error("Failed to render page", err, map[string]interface{}{
			"page": name,
		})
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
