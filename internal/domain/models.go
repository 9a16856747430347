package domain

import "github.com/shopspring/decimal"

// Product lifecycle. A listing is one-of-a-kind: active until either its
// seller withdraws it (inactive) or a checkout marks it sold.
const (
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusInactive = "inactive"
)

// Listing conditions, best to worst.
const (
	CondNew     = "new"
	CondLikeNew = "like_new"
	CondGood    = "good"
	CondFair    = "fair"
	CondPoor    = "poor"
)

// Order statuses. Orders are created pending; later transitions come from
// the seller/pickup side.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Category struct {
	ID    string `db:"id" json:"category_id"`
	Name  string `db:"name" json:"name"`
	Icon  string `db:"icon" json:"icon"`
	Color string `db:"color" json:"color"`
}

type Tag struct {
	ID   string `db:"id" json:"tag_id"`
	Name string `db:"name" json:"name"`
}

type Product struct {
	ID          string          `db:"id" json:"product_id"`
	SellerID    string          `db:"seller_id" json:"seller_id"`
	CategoryID  string          `db:"category_id" json:"category_id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Condition   string          `db:"condition" json:"condition"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Status      string          `db:"status" json:"status"`
	ImagesJSON  string          `db:"images_json" json:"-"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"updated_at,omitempty"`
}

type Order struct {
	ID        string          `db:"id" json:"order_id"`
	BuyerID   string          `db:"buyer_id" json:"buyer_id"`
	Total     decimal.Decimal `db:"total" json:"total_amount"`
	Status    string          `db:"status" json:"status"`
	CreatedAt string          `db:"created_at" json:"created_at"`
}
