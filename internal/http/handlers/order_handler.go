package handlers

import (
	"campusmarket/internal/apperr"
	applog "campusmarket/internal/log"
	"campusmarket/internal/services"
	"campusmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
}

// PlaceOrder runs the atomic cart -> order conversion for the caller. The
// request carries no body; the cart is the input.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	u := currentUser(c)
	res, err := h.Checkout.Checkout(u.ID)
	if err != nil {
		return fail(c, "checkout", err)
	}
	applog.Audit(c, "checkout.success", map[string]any{
		"order_id": res.OrderID,
		"total":    res.TotalAmount.StringFixed(2),
	})
	return ok(c, fiber.Map{"orderId": res.OrderID, "totalAmount": res.TotalAmount})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Checkout.History(currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return ok(c, orders)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	oid, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, "orders.status", apperr.NotFound("ORDER_NOT_FOUND", "order not found"))
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "orders.status", apperr.Validation("BAD_BODY", "malformed request body"))
	}
	if err := h.Checkout.SetStatus(oid, currentUser(c).ID, req.Status); err != nil {
		return fail(c, "orders.status", err)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": oid, "status": req.Status})
	return okMsg(c, "Order updated")
}
