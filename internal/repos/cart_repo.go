package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartItemRow is a cart entry joined to its live product and seller.
type CartItemRow struct {
	ProductID   string          `db:"product_id" json:"product_id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Condition   string          `db:"condition" json:"condition"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	ImagesJSON  string          `db:"images_json" json:"-"`
	Images      []string        `db:"-" json:"images"`
	SellerName  string          `db:"seller_name" json:"seller_name"`
	SellerEmail string          `db:"seller_email" json:"seller_email"`
	AddedAt     string          `db:"created_at" json:"added_at"`
}

// UpsertAdd inserts the pair or bumps its quantity in a single statement,
// so two adds for the same pair can't lose an update.
func (r *CartRepo) UpsertAdd(buyerID, productID string, qty int, price decimal.Decimal) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(buyer_id,product_id,quantity,price_at_add)
		VALUES(?,?,?,?)
		ON CONFLICT(buyer_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, buyerID, productID, qty, price)
	return err
}

// SetQuantity replaces the quantity outright. Missing rows are not an error;
// affected-rows tells the caller whether anything changed.
func (r *CartRepo) SetQuantity(buyerID, productID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET quantity=?, updated_at=CURRENT_TIMESTAMP
		WHERE buyer_id=? AND product_id=?
	`, qty, buyerID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// Remove is an idempotent delete; absence of the row is fine.
func (r *CartRepo) Remove(buyerID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE buyer_id=? AND product_id=?`, buyerID, productID)
	return err
}

// View returns the buyer's entries joined to currently-active products.
// Rows whose product has since gone sold or inactive are omitted, not
// deleted; checkout and reads both see only live entries.
func (r *CartRepo) View(buyerID string) ([]CartItemRow, decimal.Decimal, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.title, p.description, p.condition, p.price,
	         ci.quantity, (ci.quantity * p.price) AS subtotal,
	         p.images_json, u.name AS seller_name, u.email AS seller_email,
	         ci.created_at
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id AND p.status = 'active'
	  JOIN users u ON u.id = p.seller_id
	  WHERE ci.buyer_id = ?
	  ORDER BY ci.created_at
	`, buyerID); err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for i := range rows {
		rows[i].Images = parseImages(rows[i].ImagesJSON)
		total = total.Add(rows[i].Subtotal)
	}
	return rows, total, nil
}
