package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"campusmarket/internal/apperr"
	"campusmarket/internal/domain"
	"campusmarket/internal/repos"
	"campusmarket/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	out, err := s.Cats.List()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *CatalogService) ListTags() ([]domain.Tag, error) {
	out, err := s.Cats.ListTags()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *CatalogService) List(f repos.ProductFilter, page, pageSize int) ([]repos.ProductRow, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 12
	}
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	out, err := s.Prods.ListActive(f, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Get returns a listing for public detail; withdrawn and sold rows 404.
func (s *CatalogService) Get(id string) (*repos.ProductRow, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
		}
		return nil, apperr.Internal(err)
	}
	if p.Status != domain.StatusActive {
		return nil, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	}
	return p, nil
}

func (s *CatalogService) ListMine(sellerID string) ([]repos.ProductRow, error) {
	out, err := s.Prods.ListBySeller(sellerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

type ListingInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Condition   string          `json:"condition"`
	TagIDs      []string        `json:"tags"`
	Images      []string        `json:"images"`
}

func (in *ListingInput) toProduct(sellerID string) (*domain.Product, error) {
	title, ok := validate.Name(in.Title)
	if !ok {
		return nil, apperr.Validation("BAD_TITLE", "title must be 1-60 characters")
	}
	cond, ok := validate.Condition(in.Condition)
	if !ok {
		return nil, apperr.Validation("BAD_CONDITION", "condition must be one of new, like_new, good, fair, poor")
	}
	catID, ok := validate.ID(in.CategoryID)
	if !ok {
		return nil, apperr.Validation("BAD_CATEGORY", "missing category_id")
	}
	if !validate.Price(in.Price) {
		return nil, apperr.Validation("BAD_PRICE", "price cannot be negative")
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &domain.Product{
		SellerID:    sellerID,
		CategoryID:  catID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Condition:   cond,
		Price:       in.Price,
		Status:      domain.StatusActive,
		ImagesJSON:  string(imagesJSON),
	}, nil
}

func (s *CatalogService) Create(sellerID string, in ListingInput) (*repos.ProductRow, error) {
	p, err := in.toProduct(sellerID)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	for _, t := range in.TagIDs {
		if _, ok := validate.ID(t); !ok {
			return nil, apperr.Validation("BAD_TAG", "bad tag id")
		}
	}
	if err := s.Prods.Create(p, in.TagIDs); err != nil {
		return nil, apperr.Internal(err)
	}
	row, err := s.Prods.Get(p.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return row, nil
}

// Update rewrites an active listing owned by the caller. Sold listings are
// immutable; other sellers' listings look like they don't exist.
func (s *CatalogService) Update(id, sellerID string, in ListingInput) (*repos.ProductRow, error) {
	p, err := in.toProduct(sellerID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Prods.UpdateOwned(id, sellerID, p)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	}
	row, err := s.Prods.Get(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return row, nil
}

func (s *CatalogService) Withdraw(id, sellerID string) error {
	ok, err := s.Prods.Withdraw(id, sellerID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	}
	return nil
}
