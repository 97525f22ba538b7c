package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/middleware"
	ws "marketplace/internal/infrastructure/websocket"
	"marketplace/pkg/errors"
	"marketplace/pkg/response"
)

// WebSocketDeps carries the hub and the auth middleware used to resolve the
// connection token.
type WebSocketDeps struct {
	Hub            *ws.Hub
	AuthMiddleware *middleware.AuthMiddleware
}

type WebSocketHandler struct {
	hub            *ws.Hub
	authMiddleware *middleware.AuthMiddleware
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(deps WebSocketDeps) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            deps.Hub,
		authMiddleware: deps.AuthMiddleware,
	}
}

// HandleWebSocket upgrades the connection for a user identified by a token
// query parameter. Browsers cannot set headers on websocket dials, so the
// token travels in the query string here.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Token is required", nil))
	}

	userID, err := h.authMiddleware.ResolveToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upgrade connection", err))
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register <- client

	go client.ReadPump(h.hub)
	go client.WritePump()

	return nil
}
