package validate

import (
	"regexp"
	"strings"

	"campusmarket/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// InstitutionalEmail additionally requires the configured campus domain.
func InstitutionalEmail(s, domain string) (string, bool) {
	s, ok := Email(s)
	if !ok {
		return "", false
	}
	return s, strings.HasSuffix(strings.ToLower(s), "@"+strings.ToLower(domain))
}

// Password only rejects blanks and bcrypt-unhashable lengths; the original
// site accepts anything non-empty at registration.
func Password(s string) bool {
	return s != "" && len(s) <= 72
}

// ID validates a simple resource identifier (product/category/tag ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Condition(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case domain.CondNew, domain.CondLikeNew, domain.CondGood, domain.CondFair, domain.CondPoor:
		return s, true
	}
	return "", false
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Qty checks a cart quantity. Zero and negatives are rejected rather than
// silently clamped; 50 caps abuse.
func Qty(n int) bool { return n >= 1 && n <= 50 }

func Price(d decimal.Decimal) bool { return !d.IsNegative() }
