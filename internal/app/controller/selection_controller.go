package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/service"
	apperrors "github.com/ghain/storefront-backend/internal/errors"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SelectionController stores the product a listing page hands to the
// details page.
type SelectionController struct {
	stores   *service.StoreFactory
	products service.ProductService
}

func NewSelectionController(stores *service.StoreFactory, products service.ProductService) *SelectionController {
	return &SelectionController{
		stores:   stores,
		products: products,
	}
}

// GetSelection
// GET /api/v1/selection
func (ctrl *SelectionController) GetSelection(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	selection, found := ctrl.stores.Selection(scope).Load(c.Request.Context())
	if !found {
		apperrors.NotFound(c, apperrors.SelectionNotFound, "لا يوجد منتج محدد")
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": selection})
}

// SaveSelection replaces the handed-off product. A bare id is completed from
// the catalog.
// PUT /api/v1/selection
func (ctrl *SelectionController) SaveSelection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var req model.SelectedProduct
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}
	req.ID = strings.TrimSpace(req.ID)

	if req.ID != "" && req.Title == "" {
		if product, err := ctrl.products.GetProductByID(req.ID); err == nil {
			req = selectionFromProduct(product)
		}
	}

	if err := ctrl.stores.Selection(scope).Save(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrIdentityUnresolved) {
			apperrors.Unprocessable(c, apperrors.IdentityUnresolved, msgIdentityUnresolved)
			return
		}
		log.Error("Failed to save selection", err, map[string]interface{}{
			"product_id": req.ID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "selection")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   msgSelectionSaved,
		"selection": req,
	})
}

func selectionFromProduct(p *model.Product) model.SelectedProduct {
	return model.SelectedProduct{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		URL:         "/product?id=" + p.ID,
	}
}
