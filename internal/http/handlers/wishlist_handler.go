package handlers

import (
	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"
	"campusmarket/internal/services"
	"campusmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List(currentUser(c).ID)
	if err != nil {
		return fail(c, "wishlist.list", err)
	}
	return ok(c, items)
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "wishlist.save", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, "wishlist.save", apperr.Validation("BAD_PRODUCT_ID", "missing productId"))
	}
	if err := h.Wish.Save(currentUser(c).ID, pid); err != nil {
		return fail(c, "wishlist.save", err)
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": pid})
	return okMsg(c, "Item added to wishlist")
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return fail(c, "wishlist.unsave", apperr.Validation("BAD_PRODUCT_ID", "missing productId"))
	}
	if err := h.Wish.Unsave(currentUser(c).ID, pid); err != nil {
		return fail(c, "wishlist.unsave", err)
	}
	return okMsg(c, "Item removed from wishlist")
}
