package services_test

import (
	"testing"

	"campusmarket/internal/repos"
	"campusmarket/internal/services"
)

func TestWishlist_SaveIsIdempotent(t *testing.T) {
	db := memdb(t)
	svc := services.NewWishlistService(repos.NewWishlistRepo(db), repos.NewProductRepo(db))

	if err := svc.Save("u-alice", "p1"); err != nil {
		t.Fatal(err)
	}
	// Saving twice is success, not a duplicate.
	if err := svc.Save("u-alice", "p1"); err != nil {
		t.Fatal(err)
	}
	items, err := svc.List("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("bad wishlist: %+v", items)
	}

	if err := svc.Save("u-alice", "missing"); err == nil {
		t.Fatal("unknown product must be rejected")
	}

	if err := svc.Unsave("u-alice", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsave("u-alice", "p1"); err != nil {
		t.Fatal(err)
	}
	items, err = svc.List("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("wishlist should be empty, got %+v", items)
	}
}
