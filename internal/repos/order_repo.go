package repos

import (
	"errors"

	"campusmarket/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Distinct checkout outcomes the service layer maps to caller-facing codes.
var (
	ErrEmptyCart    = errors.New("no active items in cart")
	ErrSoldConflict = errors.New("product already sold")
)

type checkoutLine struct {
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

// PlaceFromCart converts the buyer's current cart into an order in one
// transaction: load active entries, write the order and its items with the
// catalog price read here (not the add-to-cart snapshot), mark each product
// sold, clear the cart. The sold transition is a conditional update; losing
// it to a concurrent checkout aborts the whole attempt, so a product is
// purchasable at most once and a failed attempt leaves every table as it was.
func (r *OrderRepo) PlaceFromCart(buyerID, orderID string) (decimal.Decimal, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = tx.Rollback() }()

	// The emptiness check lives inside the transaction: a concurrent
	// checkout or withdrawal must not slip between check and write.
	var lines []checkoutLine
	if err := tx.Select(&lines, `
		SELECT ci.product_id, ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id AND p.status = 'active'
		WHERE ci.buyer_id = ?
	`, buyerID); err != nil {
		return decimal.Zero, err
	}
	if len(lines) == 0 {
		return decimal.Zero, ErrEmptyCart
	}

	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	if _, err := tx.Exec(`
		INSERT INTO orders(id, buyer_id, total, status) VALUES(?, ?, ?, ?)
	`, orderID, buyerID, total, domain.OrderPending); err != nil {
		return decimal.Zero, err
	}

	for _, ln := range lines {
		if _, err := tx.Exec(`
			INSERT INTO order_items(order_id, product_id, quantity, price)
			VALUES(?, ?, ?, ?)
		`, orderID, ln.ProductID, ln.Quantity, ln.Price); err != nil {
			return decimal.Zero, err
		}
	}

	for _, ln := range lines {
		res, err := tx.Exec(`
			UPDATE products SET status='sold', updated_at=CURRENT_TIMESTAMP
			WHERE id=? AND status='active'
		`, ln.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return decimal.Zero, ErrSoldConflict
		}
	}

	// Every loaded entry is being purchased, so the whole cart goes.
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE buyer_id=?`, buyerID); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

type historyRow struct {
	OrderID     string          `db:"order_id"`
	Total       decimal.Decimal `db:"total"`
	Status      string          `db:"status"`
	CreatedAt   string          `db:"created_at"`
	ProductID   string          `db:"product_id"`
	Title       string          `db:"title"`
	ImagesJSON  string          `db:"images_json"`
	Quantity    int             `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
	SellerName  string          `db:"seller_name"`
	SellerEmail string          `db:"seller_email"`
}

type OrderItemView struct {
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Images      []string        `json:"images"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	SellerName  string          `json:"seller_name"`
	SellerEmail string          `json:"seller_email"`
}

type OrderView struct {
	domain.Order
	Items []OrderItemView `json:"items"`
}

// ListByBuyer returns the buyer's orders newest first with items nested,
// folding the joined rows by order id.
func (r *OrderRepo) ListByBuyer(buyerID string) ([]OrderView, error) {
	var rows []historyRow
	if err := r.db.Select(&rows, `
		SELECT o.id AS order_id, o.total, o.status, o.created_at,
		       oi.quantity, oi.price,
		       p.id AS product_id, p.title, p.images_json,
		       seller.name AS seller_name, seller.email AS seller_email
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		JOIN users seller ON seller.id = p.seller_id
		WHERE o.buyer_id = ?
		ORDER BY datetime(o.created_at) DESC, o.id
	`, buyerID); err != nil {
		return nil, err
	}

	out := []OrderView{}
	idx := map[string]int{}
	for _, row := range rows {
		i, ok := idx[row.OrderID]
		if !ok {
			out = append(out, OrderView{Order: domain.Order{
				ID: row.OrderID, BuyerID: buyerID, Total: row.Total,
				Status: row.Status, CreatedAt: row.CreatedAt,
			}})
			i = len(out) - 1
			idx[row.OrderID] = i
		}
		out[i].Items = append(out[i].Items, OrderItemView{
			ProductID: row.ProductID, Title: row.Title, Images: parseImages(row.ImagesJSON),
			Quantity: row.Quantity, Price: row.Price,
			SellerName: row.SellerName, SellerEmail: row.SellerEmail,
		})
	}
	return out, nil
}

// UpdateStatus transitions an order when the caller is its buyer or sells
// one of its items. Returns false when no row matched.
func (r *OrderRepo) UpdateStatus(orderID, userID, status string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE orders SET status=?
		WHERE id=? AND (
		  buyer_id=? OR EXISTS (
		    SELECT 1 FROM order_items oi
		    JOIN products p ON p.id = oi.product_id
		    WHERE oi.order_id = orders.id AND p.seller_id = ?
		  )
		)
	`, status, orderID, userID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
