package handler

import (
	"marketplace/internal/usecase"
	"marketplace/pkg/config"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	productHandler   *ProductHandler
	orderHandler     *OrderHandler
	chatHandler      *ChatHandler
	websocketHandler *WebSocketHandler
	configHandler    *ConfigHandler
	healthHandler    *HealthHandler
)

func Setup(
	cfg *config.Config,
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	orderUseCase *usecase.OrderUseCase,
	chatUseCase *usecase.ChatUseCase,
	wsDeps WebSocketDeps,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	websocketHandler = NewWebSocketHandler(wsDeps)
	configHandler = NewConfigHandler(cfg)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}

func GetConfigHandler() *ConfigHandler {
	return configHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
