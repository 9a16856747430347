package services_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"campusmarket/internal/apperr"
	"campusmarket/internal/repos"
	"campusmarket/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Two buyers, one seller, two active listings.
	db.MustExec(`INSERT INTO users(id,name,email,password_hash) VALUES
	  ('u-seller','Sam Seller','sam@columbus.edu','x'),
	  ('u-alice','Alice','alice@columbus.edu','x'),
	  ('u-bob','Bob','bob@columbus.edu','x')`)
	db.MustExec(`INSERT INTO products(id,seller_id,category_id,title,description,condition,price,status,images_json) VALUES
	  ('p1','u-seller','textbooks','Linear Algebra','','good',10.00,'active','["uploads/products/p1.jpg"]'),
	  ('p2','u-seller','electronics','TI-84 Calculator','','fair',5.00,'active','[]')`)
	return db
}

func newCartAndCheckout(db *sqlx.DB) (*services.CartService, *services.CheckoutService, *repos.OrderRepo) {
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return services.NewCartService(cartRepo, prodRepo), services.NewCheckoutService(orderRepo), orderRepo
}

func TestCheckout_CartBecomesOrder(t *testing.T) {
	db := memdb(t)
	cartSvc, checkoutSvc, _ := newCartAndCheckout(db)

	if err := cartSvc.Add("u-alice", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add("u-alice", "p2", 1); err != nil {
		t.Fatal(err)
	}

	res, err := checkoutSvc.Checkout("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if res.OrderID == "" {
		t.Fatal("no order id")
	}
	if !res.TotalAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("want total 25.00, got %s", res.TotalAmount)
	}

	var itemCount int
	if err := db.Get(&itemCount, `SELECT COUNT(*) FROM order_items WHERE order_id=?`, res.OrderID); err != nil {
		t.Fatal(err)
	}
	if itemCount != 2 {
		t.Fatalf("want 2 order items, got %d", itemCount)
	}

	var statuses []string
	if err := db.Select(&statuses, `SELECT status FROM products WHERE id IN ('p1','p2')`); err != nil {
		t.Fatal(err)
	}
	for _, s := range statuses {
		if s != "sold" {
			t.Fatalf("product not marked sold: %s", s)
		}
	}

	var cartCount int
	if err := db.Get(&cartCount, `SELECT COUNT(*) FROM cart_items WHERE buyer_id='u-alice'`); err != nil {
		t.Fatal(err)
	}
	if cartCount != 0 {
		t.Fatalf("cart should be empty after checkout, got %d rows", cartCount)
	}

	var orderStatus string
	if err := db.Get(&orderStatus, `SELECT status FROM orders WHERE id=?`, res.OrderID); err != nil {
		t.Fatal(err)
	}
	if orderStatus != "pending" {
		t.Fatalf("new orders start pending, got %s", orderStatus)
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	db := memdb(t)
	_, checkoutSvc, _ := newCartAndCheckout(db)

	_, err := checkoutSvc.Checkout("u-alice")
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if code := apperr.From(err).Code; code != "EMPTY_CART" {
		t.Fatalf("want EMPTY_CART, got %s", code)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("empty-cart checkout must create no orders, got %d", n)
	}
}

// Two buyers race for the same listing. The loser's attempt fails and
// leaves every table exactly as the winner's commit left it.
func TestCheckout_AtMostOnceSale(t *testing.T) {
	db := memdb(t)
	cartSvc, checkoutSvc, _ := newCartAndCheckout(db)

	if err := cartSvc.Add("u-alice", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add("u-bob", "p1", 1); err != nil {
		t.Fatal(err)
	}

	if _, err := checkoutSvc.Checkout("u-alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := checkoutSvc.Checkout("u-bob"); err == nil {
		t.Fatal("second checkout of a sold product must fail")
	}

	var orders int
	if err := db.Get(&orders, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if orders != 1 {
		t.Fatalf("want exactly 1 order, got %d", orders)
	}
	var soldTo int
	if err := db.Get(&soldTo, `SELECT COUNT(*) FROM order_items WHERE product_id='p1'`); err != nil {
		t.Fatal(err)
	}
	if soldTo != 1 {
		t.Fatalf("product sold into %d orders", soldTo)
	}
	// Bob's cart row survives the failed attempt untouched.
	var bobRows int
	if err := db.Get(&bobRows, `SELECT COUNT(*) FROM cart_items WHERE buyer_id='u-bob'`); err != nil {
		t.Fatal(err)
	}
	if bobRows != 1 {
		t.Fatalf("failed checkout must not touch the cart, got %d rows", bobRows)
	}
}

// A product sold out of someone else's checkout disappears from other
// buyers' cart views, but the stale row itself is kept.
func TestGetCart_FiltersStaleEntries(t *testing.T) {
	db := memdb(t)
	cartSvc, checkoutSvc, _ := newCartAndCheckout(db)

	if err := cartSvc.Add("u-bob", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add("u-bob", "p2", 1); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add("u-alice", "p1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := checkoutSvc.Checkout("u-alice"); err != nil {
		t.Fatal(err)
	}

	cv, err := cartSvc.View("u-bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].ProductID != "p2" {
		t.Fatalf("sold product must be omitted, got %+v", cv.Items)
	}
	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM cart_items WHERE buyer_id='u-bob'`); err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Fatalf("stale rows are filtered, not deleted; got %d", rows)
	}
}

func TestOrderHistory_NewestFirstWithItems(t *testing.T) {
	db := memdb(t)
	cartSvc, checkoutSvc, _ := newCartAndCheckout(db)

	if err := cartSvc.Add("u-alice", "p1", 2); err != nil {
		t.Fatal(err)
	}
	res, err := checkoutSvc.Checkout("u-alice")
	if err != nil {
		t.Fatal(err)
	}

	orders, err := checkoutSvc.History("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("want 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.ID != res.OrderID || len(o.Items) != 1 {
		t.Fatalf("bad history row: %+v", o)
	}
	it := o.Items[0]
	if it.ProductID != "p1" || it.Quantity != 2 || it.SellerName != "Sam Seller" {
		t.Fatalf("bad item: %+v", it)
	}
	if !it.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("price snapshot wrong: %s", it.Price)
	}
	if len(it.Images) != 1 || it.Images[0] != "uploads/products/p1.jpg" {
		t.Fatalf("image snapshot missing from history item: %+v", it.Images)
	}
	// and the snapshot survives serialization to the client
	b, err := json.Marshal(it)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"images":["uploads/products/p1.jpg"]`) {
		t.Fatalf("images not serialized: %s", b)
	}
}

func TestSetStatus_TransitionsAndAuthorization(t *testing.T) {
	db := memdb(t)
	cartSvc, checkoutSvc, _ := newCartAndCheckout(db)

	if err := cartSvc.Add("u-alice", "p1", 1); err != nil {
		t.Fatal(err)
	}
	res, err := checkoutSvc.Checkout("u-alice")
	if err != nil {
		t.Fatal(err)
	}

	// Unknown status rejected
	if err := checkoutSvc.SetStatus(res.OrderID, "u-alice", "pending"); err == nil {
		t.Fatal("re-entering pending must be rejected")
	}
	// A stranger cannot transition the order
	if err := checkoutSvc.SetStatus(res.OrderID, "u-bob", "confirmed"); err == nil {
		t.Fatal("non-participant must not update the order")
	}
	// The seller of an item can
	if err := checkoutSvc.SetStatus(res.OrderID, "u-seller", "confirmed"); err != nil {
		t.Fatal(err)
	}
	var status string
	if err := db.Get(&status, `SELECT status FROM orders WHERE id=?`, res.OrderID); err != nil {
		t.Fatal(err)
	}
	if status != "confirmed" {
		t.Fatalf("want confirmed, got %s", status)
	}
}
