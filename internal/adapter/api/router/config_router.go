package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
)

func SetupConfigRouter(e *echo.Echo) {
	configHandler := handler.GetConfigHandler()

	e.GET("/api/config/paypal", configHandler.GetPayPalConfig)
}
