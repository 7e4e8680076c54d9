package controller

import (
	"errors"
	"net/http"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/service"
	apperrors "github.com/ghain/storefront-backend/internal/errors"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	stores   *service.StoreFactory
	products service.ProductService
}

func NewCartController(stores *service.StoreFactory, products service.ProductService) *CartController {
	return &CartController{
		stores:   stores,
		products: products,
	}
}

type UpdateCartRequest struct {
	Quantity *quantityField `json:"quantity"`
}

func cartBody(items []model.LineItem) gin.H {
	if items == nil {
		items = []model.LineItem{}
	}
	totals := service.ComputeTotals(items)
	return gin.H{
		"items":      items,
		"count":      totals.ItemCount,
		"lines":      len(items),
		"total":      totals.MoneyTotal,
		"total_text": util.FormatMoney(totals.MoneyTotal),
	}
}

func withMessage(body gin.H, message string) gin.H {
	body["message"] = message
	return body
}

// GetCart returns the visitor's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	items := ctrl.stores.Cart(scope).List(c.Request.Context())

	log.Debug("Cart fetched", map[string]interface{}{
		"lines": len(items),
	})
	c.JSON(http.StatusOK, cartBody(items))
}

// resolveCartSnapshot applies the cart identity rules to a request.
func (ctrl *CartController) resolveCartSnapshot(c *gin.Context, req ProductActionRequest) (model.ProductSnapshot, bool) {
	log := middleware.GetLoggerFromContext(c)
	id, err := service.ResolveIdentity(req.hints(nil), service.CartIdentity)
	if err != nil {
		log.Warn("Cart action without product identity", map[string]interface{}{
			"title": req.Title,
			"link":  req.Link,
		})
		apperrors.Unprocessable(c, apperrors.IdentityUnresolved, msgIdentityUnresolved)
		return model.ProductSnapshot{}, false
	}
	return fillFromCatalog(ctrl.products, req.snapshot(id)), true
}

func addedMessage(req ProductActionRequest) string {
	if req.fromDetails() {
		return msgCartAddedDetails
	}
	return msgCartAdded
}

// AddToCart adds a product, merging into an existing line
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var req ProductActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	snap, ok := ctrl.resolveCartSnapshot(c, req)
	if !ok {
		return
	}

	qty := req.Quantity.value(1)
	items, err := ctrl.stores.Cart(scope).Add(c.Request.Context(), snap, qty)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, msgInvalidQuantity)
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"product_id": snap.ID,
			"quantity":   qty,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusCreated, withMessage(cartBody(items), addedMessage(req)))
}

// ToggleCartItem adds the product when absent, otherwise removes it
// POST /api/v1/cart/toggle
func (ctrl *CartController) ToggleCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var req ProductActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	snap, ok := ctrl.resolveCartSnapshot(c, req)
	if !ok {
		return
	}

	store := ctrl.stores.Cart(scope)
	inCart, err := store.Toggle(c.Request.Context(), snap, req.Quantity.value(1))
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, msgInvalidQuantity)
			return
		}
		log.Error("Failed to toggle cart item", err, map[string]interface{}{
			"product_id": snap.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	message := msgCartRemoved
	if inCart {
		message = addedMessage(req)
	}
	body := withMessage(cartBody(store.List(c.Request.Context())), message)
	body["in_cart"] = inCart
	body["id"] = snap.ID
	c.JSON(http.StatusOK, body)
}

// UpdateCartItem sets the quantity of a line; zero or less removes it
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "الكمية مطلوبة")
		return
	}

	id := c.Param("id")
	store := ctrl.stores.Cart(scope)
	if err := store.SetQuantity(c.Request.Context(), id, int(*req.Quantity)); err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidQuantity, msgInvalidQuantity)
			return
		}
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusOK, withMessage(cartBody(store.List(c.Request.Context())), msgCartUpdated))
}

// IncrementCartItem adds one to a line
// POST /api/v1/cart/:id/increment
func (ctrl *CartController) IncrementCartItem(c *gin.Context) {
	ctrl.stepQuantity(c, 1)
}

// DecrementCartItem takes one from a line, never going below 1
// POST /api/v1/cart/:id/decrement
func (ctrl *CartController) DecrementCartItem(c *gin.Context) {
	ctrl.stepQuantity(c, -1)
}

func (ctrl *CartController) stepQuantity(c *gin.Context, delta int) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	store := ctrl.stores.Cart(scope)

	current := 0
	for _, item := range store.List(ctx) {
		if item.ID == id {
			current = item.Quantity
			break
		}
	}
	if current == 0 {
		apperrors.NotFound(c, apperrors.CartItemNotFound, "المنتج غير موجود في السلة")
		return
	}

	next := current + delta
	if next < 1 {
		next = 1
	}
	if next > service.MaxLineQuantity {
		next = service.MaxLineQuantity
	}
	if err := store.SetQuantity(ctx, id, next); err != nil {
		log.Error("Failed to step cart quantity", err, map[string]interface{}{
			"product_id": id,
			"delta":      delta,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusOK, withMessage(cartBody(store.List(ctx)), msgCartUpdated))
}

// RemoveCartItem drops a line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	id := c.Param("id")
	store := ctrl.stores.Cart(scope)
	if err := store.Remove(c.Request.Context(), id); err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, withMessage(cartBody(store.List(c.Request.Context())), msgCartRemoved))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := ctrl.stores.Cart(scope).Clear(c.Request.Context()); err != nil {
		log.Error("Failed to clear cart", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart")
		return
	}

	c.JSON(http.StatusOK, withMessage(cartBody(nil), msgCartCleared))
}
