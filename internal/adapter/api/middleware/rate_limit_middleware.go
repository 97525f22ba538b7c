package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"marketplace/internal/infrastructure/ratelimit"
	"marketplace/pkg/errors"
	"marketplace/pkg/response"
)

// RateLimitMiddleware throttles requests per client IP using a shared token
// bucket limiter.
type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	m := &RateLimitMiddleware{limiter: limiter}

	go func() {
		for range time.Tick(10 * time.Minute) {
			limiter.Cleanup()
		}
	}()

	return m
}

func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.limiter.Allow(c.RealIP()) {
			return response.Error(c, errors.TooManyRequests("Too many requests, please try again later"))
		}
		return next(c)
	}
}
