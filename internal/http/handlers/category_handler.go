package handlers

import (
	"campusmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return ok(c, cats)
}

func (h *CategoryHandler) Tags(c *fiber.Ctx) error {
	tags, err := h.Catalog.ListTags()
	if err != nil {
		return fail(c, "tags.list", err)
	}
	return ok(c, tags)
}
