package services

import (
	"database/sql"
	"errors"

	"campusmarket/internal/apperr"
	"campusmarket/internal/repos"
)

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Prods *repos.ProductRepo
}

func NewWishlistService(r *repos.WishlistRepo, prods *repos.ProductRepo) *WishlistService {
	return &WishlistService{Repo: r, Prods: prods}
}

func (s *WishlistService) Save(buyerID, productID string) error {
	if _, err := s.Prods.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
		}
		return apperr.Internal(err)
	}
	if err := s.Repo.Add(buyerID, productID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *WishlistService) Unsave(buyerID, productID string) error {
	if err := s.Repo.Remove(buyerID, productID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *WishlistService) List(buyerID string) ([]repos.WishlistRow, error) {
	rows, err := s.Repo.List(buyerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
