package routes

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/handlers"
	"aurastore_back_end/internal/handlers/product"
	"aurastore_back_end/internal/handlers/user"
	"aurastore_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", handlers.BeginAuth)
	api.GET("/auth/:provider/callback", handlers.CallbackAuth)

	// Catalogue (public)
	api.GET("/products", product.GetProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProductByID)

	// Espace connecté
	auth := api.Group("/")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.Me)

		// Panier
		auth.GET("/cart", user.GetCart)
		auth.GET("/cart/ws", user.CartWebSocket)
		auth.POST("/cart", user.AddToCart)
		auth.PUT("/cart/:productId", user.UpdateCartQuantity)
		auth.DELETE("/cart/:productId", user.RemoveFromCart)
		auth.DELETE("/cart", user.ClearCart)

		// Wishlist
		auth.GET("/wishlist", user.GetWishlist)
		auth.POST("/wishlist/toggle", user.ToggleWishlist)
		auth.GET("/wishlist/:productId", user.CheckWishlist)

		// Commandes
		auth.POST("/orders/checkout", user.Checkout)
		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:id", user.GetOrderByID)
		auth.GET("/orders/:id/invoice", user.DownloadInvoice)
	}

	// Administration
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.POST("/products", product.CreateProduct)
		admin.POST("/products/images", product.UploadProductImage)
		admin.PATCH("/orders/:id/status", user.UpdateOrderStatus)
	}
}
