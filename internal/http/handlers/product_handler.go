package handlers

import (
	"strconv"

	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"
	"campusmarket/internal/repos"
	"campusmarket/internal/services"
	"campusmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
	}
	if cond := c.Query("condition"); cond != "" {
		v, okc := validate.Condition(cond)
		if !okc {
			return fail(c, "products.list", apperr.Validation("BAD_CONDITION", "unknown condition filter"))
		}
		f.Condition = v
	}
	if raw := c.Query("min_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			f.MinPrice = &d
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			f.MaxPrice = &d
		}
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "12"))

	rows, err := h.Catalog.List(f, page, limit)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return ok(c, rows)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.detail", apperr.NotFound("PRODUCT_NOT_FOUND", "product not found"))
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "products.detail", err)
	}
	return ok(c, p)
}

func (h *ProductHandler) Mine(c *fiber.Ctx) error {
	rows, err := h.Catalog.ListMine(currentUser(c).ID)
	if err != nil {
		return fail(c, "products.mine", err)
	}
	return ok(c, rows)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "products.create", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	p, err := h.Catalog.Create(currentUser(c).ID, in)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return created(c, "Product created successfully", p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.update", apperr.NotFound("PRODUCT_NOT_FOUND", "product not found"))
	}
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "products.update", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	p, err := h.Catalog.Update(id, currentUser(c).ID, in)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return ok(c, p)
}

// Withdraw retires the caller's listing (active -> inactive). DELETE on the
// route, but rows are never hard-deleted.
func (h *ProductHandler) Withdraw(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "products.withdraw", apperr.NotFound("PRODUCT_NOT_FOUND", "product not found"))
	}
	if err := h.Catalog.Withdraw(id, currentUser(c).ID); err != nil {
		return fail(c, "products.withdraw", err)
	}
	applog.Audit(c, "products.withdraw", map[string]any{"product_id": id})
	return okMsg(c, "Listing withdrawn")
}
