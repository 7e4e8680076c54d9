package router

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/ghain/storefront-backend/config"
	"github.com/ghain/storefront-backend/internal/app/controller"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	cartController      *controller.CartController
	favoritesController *controller.FavoritesController
	selectionController *controller.SelectionController
	productController   *controller.ProductController
	checkoutController  *controller.CheckoutController
	pageController      *controller.PageController
	syncController      *controller.SyncController
	sessionMiddleware   *middleware.SessionMiddleware
	assets              fs.FS
	config              *config.Config
}

func NewRouter(
	cartController *controller.CartController,
	favoritesController *controller.FavoritesController,
	selectionController *controller.SelectionController,
	productController *controller.ProductController,
	checkoutController *controller.CheckoutController,
	pageController *controller.PageController,
	syncController *controller.SyncController,
	sessionMiddleware *middleware.SessionMiddleware,
	assets fs.FS,
	cfg *config.Config,
) *Router {
	return &Router{
		cartController:      cartController,
		favoritesController: favoritesController,
		selectionController: selectionController,
		productController:   productController,
		checkoutController:  checkoutController,
		pageController:      pageController,
		syncController:      syncController,
		sessionMiddleware:   sessionMiddleware,
		assets:              assets,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Ghain storefront is running",
		})
	})

	router.StaticFS("/assets", http.FS(r.assets))

	session := router.Group("")
	session.Use(r.sessionMiddleware.Attach())

	// Pages are reachable under their file names too, which is how the
	// storefront markup links them.
	pages := []struct {
		path    string
		handler gin.HandlerFunc
	}{
		{"/", r.pageController.Home},
		{"/index.html", r.pageController.Home},
		{"/cart", r.pageController.Cart},
		{"/wishlist", r.pageController.Wishlist},
		{"/product", r.pageController.Product},
		{"/checkout", r.pageController.Checkout},
	}
	for _, p := range pages {
		session.GET(p.path, p.handler)
		if p.path != "/" && !strings.HasSuffix(p.path, ".html") {
			session.GET(p.path+".html", p.handler)
		}
	}

	session.GET("/ws", r.syncController.HandleWebSocket)

	v1 := session.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAllProducts)
			products.GET("/categories", r.productController.GetCategories)
			products.GET("/:id", r.productController.GetProductByID)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/toggle", r.cartController.ToggleCartItem)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveCartItem)
			cart.POST("/:id/increment", r.cartController.IncrementCartItem)
			cart.POST("/:id/decrement", r.cartController.DecrementCartItem)
		}

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", r.favoritesController.GetFavorites)
			favorites.POST("", r.favoritesController.AddFavorite)
			favorites.DELETE("", r.favoritesController.ClearFavorites)
			favorites.POST("/toggle", r.favoritesController.ToggleFavorite)
			favorites.DELETE("/:id", r.favoritesController.RemoveFavorite)
		}

		selection := v1.Group("/selection")
		{
			selection.GET("", r.selectionController.GetSelection)
			selection.PUT("", r.selectionController.SaveSelection)
		}

		v1.POST("/checkout/summary", r.checkoutController.GetSummary)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Tab-ID, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
