// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/config"
	"github.com/mercato/mercato-backend/internal/handlers"
	"github.com/mercato/mercato-backend/internal/middleware"
	"github.com/mercato/mercato-backend/internal/services"
	"github.com/mercato/mercato-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	checkoutService := services.NewCheckoutService(db)
	adminService := services.NewAdminService(db)
	paymentService := services.NewPaymentService(cfg)
	storageService, _ := services.NewStorageService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(checkoutService, cartService, paymentService)
	adminHandler := handlers.NewAdminHandler(adminService, storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Storefront routes (public)
		v1.GET("/", catalogHandler.Home)
		v1.GET("/products", catalogHandler.ListProducts)
		v1.GET("/products/:id", catalogHandler.GetProduct)
		v1.GET("/categories", catalogHandler.ListCategories)

		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.ViewCart)
			cart.POST("/add/:product_id", cartHandler.AddToCart)
			cart.POST("/update/:item_id", cartHandler.UpdateCartItem)
			cart.POST("/remove/:item_id", cartHandler.RemoveCartItem)
			cart.GET("/checkout", orderHandler.CheckoutView)
			cart.POST("/checkout", orderHandler.Checkout)
		}

		// Order history
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Admin routes: non-admins are redirected, never served
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", adminHandler.ListProducts)
				adminProducts.POST("", adminHandler.CreateProduct)
				adminProducts.PUT("/:id", adminHandler.UpdateProduct)
				adminProducts.POST("/:id/images", adminHandler.UploadProductImage)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.GET("", adminHandler.ListCategories)
				adminCategories.POST("", adminHandler.CreateCategory)
				adminCategories.PUT("/:id", adminHandler.UpdateCategory)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", adminHandler.ListOrders)
				adminOrders.GET("/:id", adminHandler.GetOrder)
			}

			admin.GET("/users", adminHandler.ListUsers)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
