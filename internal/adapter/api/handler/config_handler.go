package handler

import (
	"github.com/labstack/echo/v4"

	"marketplace/pkg/config"
	"marketplace/pkg/response"
)

// ConfigHandler exposes the non-secret client configuration the frontend
// needs to bootstrap.
type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

func (h *ConfigHandler) GetPayPalConfig(c echo.Context) error {
	return response.Success(c, map[string]string{
		"clientId": h.cfg.PayPalClientID,
	})
}
