package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, rateLimitMiddleware.Limit)
	auth.POST("/login", authHandler.Login, rateLimitMiddleware.Limit)
	auth.POST("/forgotpassword", authHandler.ForgotPassword, rateLimitMiddleware.Limit)
	auth.PUT("/resetpassword/:token", authHandler.ResetPassword, rateLimitMiddleware.Limit)

	profile := e.Group("/api/auth/profile")
	profile.Use(authMiddleware.Authenticate)
	profile.GET("", authHandler.GetProfile)
	profile.PUT("", authHandler.UpdateProfile)
}
