package controller

import (
	"errors"
	"net/http"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/service"
	apperrors "github.com/ghain/storefront-backend/internal/errors"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FavoritesController struct {
	stores   *service.StoreFactory
	products service.ProductService
}

func NewFavoritesController(stores *service.StoreFactory, products service.ProductService) *FavoritesController {
	return &FavoritesController{
		stores:   stores,
		products: products,
	}
}

func favoritesBody(items []model.FavoriteItem) gin.H {
	if items == nil {
		items = []model.FavoriteItem{}
	}
	return gin.H{
		"items": items,
		"count": len(items),
	}
}

// GetFavorites returns the wishlist
// GET /api/v1/favorites
func (ctrl *FavoritesController) GetFavorites(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, favoritesBody(ctrl.stores.Favorites(scope).List(c.Request.Context())))
}

// resolveFavoriteSnapshot applies the favorite identity rules, which also
// consult the selected-product handoff and the title+price slug.
func (ctrl *FavoritesController) resolveFavoriteSnapshot(c *gin.Context, scope service.Scope, req ProductActionRequest) (model.ProductSnapshot, bool) {
	log := middleware.GetLoggerFromContext(c)

	selection, _ := ctrl.stores.Selection(scope).Load(c.Request.Context())
	id, err := service.ResolveIdentity(req.hints(selection), service.FavoriteIdentity)
	if err != nil {
		log.Warn("Favorite action without product identity", map[string]interface{}{
			"title": req.Title,
			"price": req.Price,
		})
		apperrors.Unprocessable(c, apperrors.IdentityUnresolved, msgIdentityUnresolved)
		return model.ProductSnapshot{}, false
	}
	return fillFromCatalog(ctrl.products, req.snapshot(id)), true
}

// AddFavorite adds a product; adding one already present changes nothing
// POST /api/v1/favorites
func (ctrl *FavoritesController) AddFavorite(c *gin.Context) {
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

	snap, ok := ctrl.resolveFavoriteSnapshot(c, scope, req)
	if !ok {
		return
	}

	store := ctrl.stores.Favorites(scope)
	added, err := store.Add(c.Request.Context(), snap)
	if err != nil {
		ctrl.respondStoreError(c, err, snap.ID)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
		log.Info("Favorite added", map[string]interface{}{
			"product_id": snap.ID,
		})
	}
	body := withMessage(favoritesBody(store.List(c.Request.Context())), msgFavoriteAdded)
	body["id"] = snap.ID
	c.JSON(status, body)
}

// ToggleFavorite adds the product when absent, otherwise removes it
// POST /api/v1/favorites/toggle
func (ctrl *FavoritesController) ToggleFavorite(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var req ProductActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	snap, ok := ctrl.resolveFavoriteSnapshot(c, scope, req)
	if !ok {
		return
	}

	store := ctrl.stores.Favorites(scope)
	favorited, err := store.Toggle(c.Request.Context(), snap)
	if err != nil {
		ctrl.respondStoreError(c, err, snap.ID)
		return
	}

	message := msgFavoriteRemoved
	if favorited {
		message = msgFavoriteAdded
	}
	body := withMessage(favoritesBody(store.List(c.Request.Context())), message)
	body["favorited"] = favorited
	body["id"] = snap.ID
	c.JSON(http.StatusOK, body)
}

// RemoveFavorite drops one product
// DELETE /api/v1/favorites/:id
func (ctrl *FavoritesController) RemoveFavorite(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	id := c.Param("id")
	store := ctrl.stores.Favorites(scope)
	if err := store.Remove(c.Request.Context(), id); err != nil {
		ctrl.respondStoreError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, withMessage(favoritesBody(store.List(c.Request.Context())), msgFavoriteRemoved))
}

// ClearFavorites empties the wishlist once the shopper confirmed it
// DELETE /api/v1/favorites?confirm=true
func (ctrl *FavoritesController) ClearFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if c.Query("confirm") != "true" {
		apperrors.BadRequest(c, apperrors.ValidationConfirmRequired, msgFavoritesConfirm)
		return
	}

	if err := ctrl.stores.Favorites(scope).Clear(c.Request.Context()); err != nil {
		ctrl.respondStoreError(c, err, "")
		return
	}

	log.Info("Favorites cleared", nil)
	c.JSON(http.StatusOK, withMessage(favoritesBody(nil), msgFavoritesCleared))
}

func (ctrl *FavoritesController) respondStoreError(c *gin.Context, err error, id string) {
	if errors.Is(err, service.ErrIdentityUnresolved) {
		apperrors.Unprocessable(c, apperrors.IdentityUnresolved, msgIdentityUnresolved)
		return
	}
	middleware.GetLoggerFromContext(c).Error("Failed to update favorites", err, map[string]interface{}{
		"product_id": id,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "favorites")
}
