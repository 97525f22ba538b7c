package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"marketplace/internal/domain/repository"
	"marketplace/internal/usecase"
	"marketplace/pkg/errors"
	"marketplace/pkg/response"
)

type AuthMiddleware struct {
	tokens   usecase.TokenManager
	userRepo repository.UserRepository
}

func NewAuthMiddleware(tokens usecase.TokenManager, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// Authenticate resolves the bearer token to a user and stores the caller's
// id and role on the request context under "uid" and "role".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		userID, err := m.tokens.Verify(parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), userID)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set("uid", user.ID)
		c.Set("role", user.Role)

		return next(c)
	}
}

// ResolveToken verifies a raw token outside the normal header flow. The
// websocket endpoint passes its token as a query parameter.
func (m *AuthMiddleware) ResolveToken(ctx context.Context, token string) (string, error) {
	userID, err := m.tokens.Verify(token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	if _, err := m.userRepo.GetByID(ctx, userID); err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return userID, nil
}
