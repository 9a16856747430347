package handlers

import (
	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"
	"campusmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.register", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		return fail(c, "auth.register", apperr.Validation("PASSWORD_MISMATCH", "your password and confirm password do not match"))
	}
	u, err := h.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return created(c, "User registered!", fiber.Map{"user_id": u.ID})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.login", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	token, u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, "auth.login", err)
	}
	// Cookie for browser clients; the token in the body serves API callers.
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(h.Auth.TokenTTL.Seconds()),
	})
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return ok(c, fiber.Map{"token": token, "user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   -1,
	})
	return okMsg(c, "Logged out")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, currentUser(c))
}

type profileReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.profile", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	u, err := h.Auth.UpdateProfile(currentUser(c).ID, req.Name, req.Email)
	if err != nil {
		return fail(c, "auth.profile", err)
	}
	applog.Audit(c, "auth.profile.update", nil)
	return ok(c, u)
}
