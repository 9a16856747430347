package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

type WishlistRow struct {
	ProductID   string          `db:"product_id" json:"product_id"`
	Title       string          `db:"title" json:"title"`
	Condition   string          `db:"condition" json:"condition"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Status      string          `db:"status" json:"status"`
	SellerName  string          `db:"seller_name" json:"seller_name"`
	SavedAt     string          `db:"created_at" json:"saved_at"`
}

// Add is idempotent; re-saving an already-saved product is a no-op.
func (r *WishlistRepo) Add(buyerID, productID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(buyer_id, product_id)
	  VALUES(?, ?)
	  ON CONFLICT(buyer_id, product_id) DO NOTHING
	`, buyerID, productID)
	return err
}

func (r *WishlistRepo) Remove(buyerID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE buyer_id=? AND product_id=?`, buyerID, productID)
	return err
}

func (r *WishlistRepo) List(buyerID string) ([]WishlistRow, error) {
	out := []WishlistRow{}
	err := r.db.Select(&out, `
	  SELECT wi.product_id, p.title, p.condition, p.price, p.status,
	         u.name AS seller_name, wi.created_at
	  FROM wishlist_items wi
	  JOIN products p ON p.id = wi.product_id
	  JOIN users u ON u.id = p.seller_id
	  WHERE wi.buyer_id = ?
	  ORDER BY wi.created_at DESC
	`, buyerID)
	return out, err
}
