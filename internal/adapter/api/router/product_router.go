package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	productHandler := handler.GetProductHandler()

	products := e.Group("/api/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/top", productHandler.TopProducts)
	products.GET("/seller/:id", productHandler.SellerProducts)
	products.GET("/:id", productHandler.GetProduct)

	products.POST("", productHandler.CreateProduct, authMiddleware.Authenticate, roleMiddleware.SellerOnly)
	products.PUT("/:id", productHandler.UpdateProduct, authMiddleware.Authenticate, roleMiddleware.SellerOnly)
	products.DELETE("/:id", productHandler.DeleteProduct, authMiddleware.Authenticate, roleMiddleware.SellerOnly)

	products.POST("/:id/reviews", productHandler.CreateReview, authMiddleware.Authenticate)
}
