package coupons

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Coupon is a resolved coupon code and the fraction of the subtotal it takes off.
type Coupon struct {
	Code string
	Rate decimal.Decimal
}

// Registry is an immutable set of valid coupon codes.
type Registry struct {
	rates map[string]decimal.Decimal
}

// Normalize trims and upper-cases a shopper-entered code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewRegistry validates and copies the provided code/rate pairs. Codes are normalized, and
// every rate must lie strictly between zero and one.
func NewRegistry(rates map[string]decimal.Decimal) (*Registry, error) {
	copied := make(map[string]decimal.Decimal, len(rates))
	for raw, rate := range rates {
		code := Normalize(raw)
		if code == "" {
			return nil, fmt.Errorf("coupon code must not be empty")
		}
		if err := ValidateRate(rate); err != nil {
			return nil, fmt.Errorf("coupon %s: %w", code, err)
		}
		if _, dup := copied[code]; dup {
			return nil, fmt.Errorf("coupon %s defined more than once", code)
		}
		copied[code] = rate
	}
	return &Registry{rates: copied}, nil
}

// Default returns the storefront's built-in codes.
func Default() *Registry {
	return &Registry{rates: map[string]decimal.Decimal{
		"IIUC10": decimal.RequireFromString("0.10"),
		"IIUC20": decimal.RequireFromString("0.20"),
	}}
}

// FromConfig parses "CODE" -> "0.10" pairs as loaded from the environment.
func FromConfig(raw map[string]string) (*Registry, error) {
	rates := make(map[string]decimal.Decimal, len(raw))
	for code, value := range raw {
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("coupon %s: parse rate %q: %w", Normalize(code), value, err)
		}
		rates[code] = rate
	}
	return NewRegistry(rates)
}

// ValidateRate reports whether a discount rate lies in the open interval (0, 1).
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate %s must be greater than 0 and less than 1", rate)
	}
	return nil
}

// Lookup resolves a code case-insensitively.
func (r *Registry) Lookup(code string) (Coupon, bool) {
	if r == nil {
		return Coupon{}, false
	}
	normalized := Normalize(code)
	rate, ok := r.rates[normalized]
	if !ok {
		return Coupon{}, false
	}
	return Coupon{Code: normalized, Rate: rate}, true
}

// Codes lists the known codes in sorted order.
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.rates))
	for code := range r.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
