package handlers

import (
	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"

	"github.com/gofiber/fiber/v2"
)

// Every response uses the same envelope; clients rely on success and the
// HTTP status only, message wording is free to change.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(envelope{Success: true, Data: data})
}

func okMsg(c *fiber.Ctx, msg string) error {
	return c.JSON(envelope{Success: true, Message: msg})
}

func created(c *fiber.Ctx, msg string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Message: msg, Data: data})
}

// fail translates an error into the envelope exactly once. Internal causes
// are logged with the request context and never echoed to the client.
func fail(c *fiber.Ctx, action string, err error) error {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindUnavailable {
		applog.Error(c, action, err, nil)
	} else {
		applog.Info(c, action, map[string]any{"code": ae.Code})
	}
	return c.Status(ae.Kind.HTTPStatus()).JSON(envelope{
		Success: false,
		Message: ae.Msg,
		Code:    ae.Code,
	})
}
