package handlers

import (
	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"
	"campusmarket/internal/services"
	"campusmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.view", err)
	}
	// data is always an array even when the cart is empty
	return ok(c, cv.Items)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "cart.add", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, "cart.add", apperr.Validation("BAD_PRODUCT_ID", "missing productId"))
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.Cart.Add(currentUser(c).ID, pid, req.Quantity); err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "qty": req.Quantity})
	return okMsg(c, "Item added to cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req cartReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "cart.update", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, "cart.update", apperr.Validation("BAD_PRODUCT_ID", "missing productId"))
	}
	if err := h.Cart.SetQuantity(currentUser(c).ID, pid, req.Quantity); err != nil {
		return fail(c, "cart.update", err)
	}
	return okMsg(c, "Cart updated")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, okID := validate.ID(c.Params("productId"))
	if !okID {
		return fail(c, "cart.remove", apperr.Validation("BAD_PRODUCT_ID", "missing productId"))
	}
	if err := h.Cart.Remove(currentUser(c).ID, pid); err != nil {
		return fail(c, "cart.remove", err)
	}
	return okMsg(c, "Item removed from cart")
}
