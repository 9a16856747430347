package handlers

import (
	"campusmarket/internal/repos"
	"campusmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	OrderHandler    *OrderHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	wishSvc := services.NewWishlistService(wishRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService(orderRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: auth},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		OrderHandler:    &OrderHandler{Checkout: checkoutSvc},
	}
}
