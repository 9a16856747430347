package services_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"campusmarket/internal/apperr"
	"campusmarket/internal/repos"
	"campusmarket/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db := memdb(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))
}

func TestCatalog_ListFilters(t *testing.T) {
	svc := newCatalog(t)

	all, err := svc.List(repos.ProductFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("want both seeded listings, got %d", len(all))
	}
	if all[0].CategoryName == "" || all[0].SellerName == "" {
		t.Fatalf("joins missing: %+v", all[0])
	}

	byCat, err := svc.List(repos.ProductFilter{CategoryID: "textbooks"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCat) != 1 || byCat[0].ID != "p1" {
		t.Fatalf("category filter broken: %+v", byCat)
	}

	min := decimal.RequireFromString("8")
	byPrice, err := svc.List(repos.ProductFilter{MinPrice: &min}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPrice) != 1 || byPrice[0].ID != "p1" {
		t.Fatalf("min price filter broken: %+v", byPrice)
	}

	bySearch, err := svc.List(repos.ProductFilter{Search: "CALCULATOR"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 1 || bySearch[0].ID != "p2" {
		t.Fatalf("search filter broken: %+v", bySearch)
	}
}

func TestCatalog_CreateUpdateWithdraw(t *testing.T) {
	svc := newCatalog(t)

	in := services.ListingInput{
		Title:      "Mini fridge",
		CategoryID: "furniture",
		Condition:  "good",
		Price:      decimal.RequireFromString("30.00"),
		TagIDs:     []string{"tag-dorm"},
	}
	p, err := svc.Create("u-seller", in)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != "active" || p.SellerID != "u-seller" {
		t.Fatalf("bad created listing: %+v", p)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "dorm life" {
		t.Fatalf("tags not linked: %+v", p.Tags)
	}

	// Condition outside the enum
	bad := in
	bad.Condition = "mint"
	if _, err := svc.Create("u-seller", bad); err == nil {
		t.Fatal("bad condition must be rejected")
	}

	// Only the owner may update, and only while active
	in.Price = decimal.RequireFromString("25.00")
	if _, err := svc.Update(p.ID, "u-alice", in); err == nil {
		t.Fatal("non-owner update must fail")
	}
	upd, err := svc.Update(p.ID, "u-seller", in)
	if err != nil {
		t.Fatal(err)
	}
	if !upd.Price.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("price not updated: %s", upd.Price)
	}

	if err := svc.Withdraw(p.ID, "u-seller"); err != nil {
		t.Fatal(err)
	}
	// Withdrawn listings 404 on public detail and refuse further edits
	if _, err := svc.Get(p.ID); apperr.From(err).Kind != apperr.KindNotFound {
		t.Fatalf("withdrawn listing should be gone from public detail, got %v", err)
	}
	if _, err := svc.Update(p.ID, "u-seller", in); err == nil {
		t.Fatal("withdrawn listing must be immutable")
	}
}

func TestCatalog_MineIncludesSoldExcludesWithdrawn(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))

	db.MustExec(`UPDATE products SET status='sold' WHERE id='p1'`)
	if err := svc.Withdraw("p2", "u-seller"); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListMine("u-seller")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != "p1" {
		t.Fatalf("seller view should keep sold, drop withdrawn: %+v", mine)
	}
}
