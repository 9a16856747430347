package validate_test

import (
	"testing"

	"campusmarket/internal/domain"
	"campusmarket/internal/validate"
)

func TestCondition_EnumOnly(t *testing.T) {
	for _, c := range []string{
		domain.CondNew, domain.CondLikeNew, domain.CondGood, domain.CondFair, domain.CondPoor,
	} {
		if got, ok := validate.Condition(" " + c + " "); !ok || got != c {
			t.Fatalf("condition %q should validate, got %q", c, got)
		}
	}
	for _, c := range []string{"", "mint", "NEW", "like new"} {
		if _, ok := validate.Condition(c); ok {
			t.Fatalf("condition %q should be rejected", c)
		}
	}
}

func TestQty_Bounds(t *testing.T) {
	for n, want := range map[int]bool{0: false, -3: false, 1: true, 50: true, 51: false} {
		if validate.Qty(n) != want {
			t.Fatalf("Qty(%d) = %v, want %v", n, !want, want)
		}
	}
}
