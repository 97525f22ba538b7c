package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()
	websocketHandler := handler.GetWebSocketHandler()

	chats := e.Group("/api/chats")

	// Websocket authenticates through its token query parameter instead of
	// the Authorization header.
	chats.GET("/ws", websocketHandler.HandleWebSocket)

	chats.POST("", chatHandler.CreateChat, authMiddleware.Authenticate)
	chats.GET("", chatHandler.ListChats, authMiddleware.Authenticate)
	chats.POST("/message", chatHandler.SendMessage, authMiddleware.Authenticate)
	chats.GET("/:id/messages", chatHandler.ListMessages, authMiddleware.Authenticate)
}
