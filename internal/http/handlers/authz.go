package handlers

import (
	"strings"

	"campusmarket/internal/apperr"
	"campusmarket/internal/domain"
	applog "campusmarket/internal/log"
	"campusmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// bearerToken pulls the credential from the Authorization header or,
// failing that, the jwt cookie the original site sets.
func bearerToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Cookies("jwt")
}

// RequireUser authenticates the request and stashes the resolved user in
// Locals. The user row is looked up on every request; the token carries
// only the id.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return fail(c, "auth.missing", apperr.Auth("NO_TOKEN", "please log in to access this resource"))
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, "auth.token", err)
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// currentUser returns the user RequireUser stored; nil on public routes.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
