package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := e.Group("/api/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", orderHandler.CreateOrder)
	orders.GET("/myorders", orderHandler.MyOrders)
	orders.GET("/seller", orderHandler.SellerOrders, roleMiddleware.SellerOnly)
	orders.GET("/:id", orderHandler.GetOrder)

	orders.PUT("/:id/pay", orderHandler.Pay)
	orders.POST("/:id/paypal/create", orderHandler.CreatePayPalOrder)
	orders.POST("/:id/paypal/capture", orderHandler.CapturePayPalOrder)

	orders.GET("", orderHandler.ListOrders, roleMiddleware.AdminOnly)
	orders.PUT("/:id/deliver", orderHandler.Deliver, roleMiddleware.AdminOnly)
}
