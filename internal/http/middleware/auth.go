package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"zerowaste/internal/model"
)

// ActorLocalKey is the key used to store the authenticated model.Actor in locals.
const ActorLocalKey = "actor"

// TokenVerifier resolves a bearer token to the organization it was issued for.
type TokenVerifier interface {
	Verify(token string) (model.Actor, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the resolved actor under ActorLocalKey.
func Authenticate(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		actor, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// RequireRole rejects actors whose role is not one of roles. It must run after Authenticate.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "role not permitted")
	}
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}
