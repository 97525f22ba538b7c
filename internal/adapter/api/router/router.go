package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) {
	SetupAuthRouter(e, authMiddleware, rateLimitMiddleware)
	SetupUserRouter(e, authMiddleware, roleMiddleware)
	SetupProductRouter(e, authMiddleware, roleMiddleware)
	SetupOrderRouter(e, authMiddleware, roleMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupConfigRouter(e)
	SetupHealthRouter(e)
}
