package services

import (
	"database/sql"
	"errors"

	"campusmarket/internal/apperr"
	"campusmarket/internal/repos"
	"campusmarket/internal/validate"

	"github.com/shopspring/decimal"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add increments the (buyer, product) entry, inserting it if new. Nothing
// is reserved here; exclusivity is enforced at checkout only.
func (s *CartService) Add(buyerID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if qty > 50 {
		qty = 50
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
		}
		return apperr.Internal(err)
	}
	if err := s.Carts.UpsertAdd(buyerID, productID, qty, p.Price); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SetQuantity replaces the entry's quantity. The original site never
// checked the lower bound; here non-positive values are rejected.
func (s *CartService) SetQuantity(buyerID, productID string, qty int) error {
	if !validate.Qty(qty) {
		return apperr.Validation("BAD_QUANTITY", "quantity must be between 1 and 50")
	}
	if _, err := s.Carts.SetQuantity(buyerID, productID, qty); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *CartService) Remove(buyerID, productID string) error {
	if err := s.Carts.Remove(buyerID, productID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

func (s *CartService) View(buyerID string) (CartView, error) {
	items, total, err := s.Carts.View(buyerID)
	if err != nil {
		return CartView{}, apperr.Internal(err)
	}
	return CartView{Items: items, Total: total}, nil
}
