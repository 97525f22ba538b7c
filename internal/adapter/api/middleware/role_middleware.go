package middleware

import (
	"github.com/labstack/echo/v4"

	"marketplace/pkg/errors"
	"marketplace/pkg/response"
)

// RoleMiddleware gates routes on the role resolved by Authenticate.
type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

func (m *RoleMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "admin" {
			return response.Error(c, errors.Forbidden("Admin access required", nil))
		}
		return next(c)
	}
}

// SellerOnly admits sellers and admins.
func (m *RoleMiddleware) SellerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "seller" && role != "admin" {
			return response.Error(c, errors.Forbidden("Seller access required", nil))
		}
		return next(c)
	}
}
