package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRoutes(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	ctrl := NewCartController(env.stores, env.products)
	cart := env.router.Group("/cart")
	cart.GET("", ctrl.GetCart)
	cart.POST("", ctrl.AddToCart)
	cart.DELETE("", ctrl.ClearCart)
	cart.POST("/toggle", ctrl.ToggleCartItem)
	cart.PUT("/:id", ctrl.UpdateCartItem)
	cart.DELETE("/:id", ctrl.RemoveCartItem)
	cart.POST("/:id/increment", ctrl.IncrementCartItem)
	cart.POST("/:id/decrement", ctrl.DecrementCartItem)
	return env
}

func cartItems(t *testing.T, env *testEnv) []model.LineItem {
	t.Helper()
	return env.stores.Cart(env.scope()).List(context.Background())
}

func TestCartController_AddToCart(t *testing.T) {
	env := setupCartRoutes(t)

	w, body := env.do(t, http.MethodPost, "/cart", gin.H{
		"id":       "1",
		"title":    "مخور حرير فاخر",
		"price":    "300.00 ر.ق",
		"quantity": 2,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, msgCartAdded, body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "$600.00", body["total_text"])

	items := cartItems(t, env)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, 300.0, items[0].Price)
	// Image filled from the catalog
	assert.Equal(t, "assets/img/products/1.png", items[0].Image)

	events := env.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, testTab, events[0].Origin)
	assert.Equal(t, "ghain_cart", events[0].Key)
}

func TestCartController_AddMergesAndUsesLinkID(t *testing.T) {
	env := setupCartRoutes(t)

	w, _ := env.do(t, http.MethodPost, "/cart", gin.H{"link": "product.html?id=2", "quantity": "1"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, body := env.do(t, http.MethodPost, "/cart", gin.H{"id": "2", "quantity": "3 pcs", "source": "details"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, msgCartAddedDetails, body["message"])

	items := cartItems(t, env)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, "مخور قطن مريح", items[0].Title)
}

func TestCartController_AddRejects(t *testing.T) {
	env := setupCartRoutes(t)

	w, body := env.do(t, http.MethodPost, "/cart", gin.H{"title": "بدون معرف", "price": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "IDENTITY_UNRESOLVED", body["error"])

	w, body = env.do(t, http.MethodPost, "/cart", gin.H{"id": "1", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_QUANTITY", body["error"])

	assert.Empty(t, cartItems(t, env))
	assert.Empty(t, env.events.all())
}

func TestCartController_QuantityBound(t *testing.T) {
	env := setupCartRoutes(t)

	w, body := env.do(t, http.MethodPost, "/cart", gin.H{"id": "1", "quantity": "9223372036854775807"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_QUANTITY", body["error"])
	assert.Empty(t, cartItems(t, env))

	w, _ = env.do(t, http.MethodPost, "/cart", gin.H{"id": "1", "quantity": 9999})
	require.Equal(t, http.StatusCreated, w.Code)
	w, body = env.do(t, http.MethodPost, "/cart", gin.H{"id": "1", "quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_QUANTITY", body["error"])

	// Plus stops at the bound instead of wrapping
	w, body = env.do(t, http.MethodPost, "/cart/1/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9999), body["count"])

	w, body = env.do(t, http.MethodPut, "/cart/1", gin.H{"quantity": 10000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_QUANTITY", body["error"])
	assert.Equal(t, 9999, cartItems(t, env)[0].Quantity)
}

func TestCartController_PageIDOnlyFromDetailsPage(t *testing.T) {
	env := setupCartRoutes(t)

	// A card without data-id or link does not borrow the page's product
	w, body := env.do(t, http.MethodPost, "/cart", gin.H{"page_id": "5", "title": "منتج مشابه"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "IDENTITY_UNRESOLVED", body["error"])
	assert.Empty(t, cartItems(t, env))

	w, _ = env.do(t, http.MethodPost, "/cart", gin.H{"page_id": "5", "source": "details"})
	require.Equal(t, http.StatusCreated, w.Code)
	items := cartItems(t, env)
	require.Len(t, items, 1)
	assert.Equal(t, "5", items[0].ID)
}

func TestCartController_UnreadableQuantityCountsAsOne(t *testing.T) {
	env := setupCartRoutes(t)

	w, _ := env.do(t, http.MethodPost, "/cart", gin.H{"id": "3", "quantity": "abc"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, cartItems(t, env)[0].Quantity)
}

func TestCartController_Toggle(t *testing.T) {
	env := setupCartRoutes(t)

	w, body := env.do(t, http.MethodPost, "/cart/toggle", gin.H{"id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["in_cart"])

	w, body = env.do(t, http.MethodPost, "/cart/toggle", gin.H{"id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["in_cart"])
	assert.Equal(t, msgCartRemoved, body["message"])
	assert.Empty(t, cartItems(t, env))
}

func TestCartController_QuantityControls(t *testing.T) {
	env := setupCartRoutes(t)
	env.do(t, http.MethodPost, "/cart", gin.H{"id": "1", "quantity": 2})

	w, _ := env.do(t, http.MethodPost, "/cart/1/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, cartItems(t, env)[0].Quantity)

	for i := 0; i < 5; i++ {
		w, _ = env.do(t, http.MethodPost, "/cart/1/decrement", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, cartItems(t, env)[0].Quantity)

	w, body := env.do(t, http.MethodPost, "/cart/9/increment", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", body["error"])
}

func TestCartController_UpdateCartItem(t *testing.T) {
	env := setupCartRoutes(t)
	env.do(t, http.MethodPost, "/cart", gin.H{"id": "1"})
	env.do(t, http.MethodPost, "/cart", gin.H{"id": "2"})

	w, body := env.do(t, http.MethodPut, "/cart/1", gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(6), body["count"])

	w, _ = env.do(t, http.MethodPut, "/cart/1", gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	items := cartItems(t, env)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ID)

	w, _ = env.do(t, http.MethodPut, "/cart/2", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_RemoveAndClear(t *testing.T) {
	env := setupCartRoutes(t)
	env.do(t, http.MethodPost, "/cart", gin.H{"id": "1"})
	env.do(t, http.MethodPost, "/cart", gin.H{"id": "2"})

	w, body := env.do(t, http.MethodDelete, "/cart/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = env.do(t, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, msgCartCleared, body["message"])
	assert.Equal(t, 0, env.backend.Len())
}

func TestCartController_GetCartEmpty(t *testing.T) {
	env := setupCartRoutes(t)

	w, body := env.do(t, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, body["items"])
	assert.Equal(t, "$0.00", body["total_text"])
}

func TestCartController_MissingSession(t *testing.T) {
	env := setupControllerTest(t)
	ctrl := NewCartController(env.stores, env.products)
	bare := gin.New()
	bare.GET("/cart", ctrl.GetCart)
	env.router = bare

	w, body := env.do(t, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SESSION_MISSING", body["error"])
}
