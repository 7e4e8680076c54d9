package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ghain/storefront-backend/internal/app/service"
	apperrors "github.com/ghain/storefront-backend/internal/errors"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkout service.CheckoutService
	stores   *service.StoreFactory
}

func NewCheckoutController(checkout service.CheckoutService, stores *service.StoreFactory) *CheckoutController {
	return &CheckoutController{
		checkout: checkout,
		stores:   stores,
	}
}

// CheckoutSummaryRequest asks for totals of either a single product bought
// directly or, without a product id, the visitor's cart.
type CheckoutSummaryRequest struct {
	ProductID      string                 `json:"product_id"`
	Quantity       *quantityField         `json:"quantity"`
	ShippingOption service.ShippingOption `json:"shipping_option"`
}

// summaryBody adds the display strings the order summary shows.
func summaryBody(summary *service.OrderSummary) gin.H {
	return gin.H{
		"summary":       summary,
		"subtotal_text": util.FormatMoney(summary.Subtotal),
		"shipping_text": util.FormatMoney(summary.Shipping),
		"total_text":    util.FormatMoney(summary.Total),
	}
}

// GetSummary recomputes the order totals after a shipping option change
// POST /api/v1/checkout/summary
func (ctrl *CheckoutController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CheckoutSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	if req.ProductID != "" {
		summary, err := ctrl.checkout.DirectBuySummary(req.ProductID, strconv.Itoa(req.Quantity.value(1)), req.ShippingOption)
		if err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				apperrors.NotFound(c, apperrors.CatalogProductNotFound, "المنتج غير موجود")
				return
			}
			log.Error("Failed to build checkout summary", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
			return
		}
		c.JSON(http.StatusOK, summaryBody(summary))
		return
	}

	scope, ok := requestScope(c)
	if !ok {
		return
	}
	items := ctrl.stores.Cart(scope).List(c.Request.Context())
	c.JSON(http.StatusOK, summaryBody(ctrl.checkout.CartSummary(items, req.ShippingOption)))
}
