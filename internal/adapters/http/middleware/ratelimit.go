package middleware

import (
	"fmt"
	"math"

	"samajhub/internal/pkg/ratelimit"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RateLimit guards an endpoint group with the given limiter. Keys are
// scoped per IP and per scope name so login and register attempts count
// separately. Limiter failures never block the request.
func RateLimit(limiter ratelimit.Limiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", scope, c.IP())

		allowed, retryAfter, err := limiter.Allow(c.Context(), key)
		if err != nil {
			return c.Next()
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Set("Retry-After", fmt.Sprintf("%d", seconds))
			return response.TooManyRequests(c, "Too many attempts, please try again later", seconds)
		}

		return c.Next()
	}
}
