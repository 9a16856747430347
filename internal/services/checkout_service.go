package services

import (
	"errors"

	"campusmarket/internal/apperr"
	"campusmarket/internal/domain"
	"campusmarket/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutService drives the cart -> order conversion. All state changes
// happen inside OrderRepo.PlaceFromCart's transaction; this layer only
// assigns the order id and turns transaction outcomes into caller-facing
// reason codes.
type CheckoutService struct {
	Orders *repos.OrderRepo
}

func NewCheckoutService(orders *repos.OrderRepo) *CheckoutService {
	return &CheckoutService{Orders: orders}
}

type CheckoutResult struct {
	OrderID     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (s *CheckoutService) Checkout(buyerID string) (CheckoutResult, error) {
	orderID := uuid.NewString()
	total, err := s.Orders.PlaceFromCart(buyerID, orderID)
	switch {
	case errors.Is(err, repos.ErrEmptyCart):
		return CheckoutResult{}, apperr.Validation("EMPTY_CART", "no items in cart to checkout")
	case errors.Is(err, repos.ErrSoldConflict):
		return CheckoutResult{}, apperr.Conflict("CONFLICT", "an item in your cart was just sold to someone else")
	case err != nil:
		return CheckoutResult{}, apperr.Internal(err)
	}
	return CheckoutResult{OrderID: orderID, TotalAmount: total}, nil
}

func (s *CheckoutService) History(buyerID string) ([]repos.OrderView, error) {
	orders, err := s.Orders.ListByBuyer(buyerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

var allowedTransitions = map[string]bool{
	domain.OrderConfirmed: true,
	domain.OrderCompleted: true,
	domain.OrderCancelled: true,
}

// SetStatus applies a post-checkout transition for the buyer or a seller
// of one of the order's items. "pending" is entry-only and cannot be set.
func (s *CheckoutService) SetStatus(orderID, userID, status string) error {
	if !allowedTransitions[status] {
		return apperr.Validation("BAD_STATUS", "status must be confirmed, completed or cancelled")
	}
	ok, err := s.Orders.UpdateStatus(orderID, userID, status)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("ORDER_NOT_FOUND", "order not found")
	}
	return nil
}
