package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// String returns a pointer to s.
func String(s string) *string { return &s }

// Decimal returns a pointer to d.
func Decimal(d decimal.Decimal) *decimal.Decimal { return &d }

// Date returns a pointer to t.
func Date(t time.Time) *time.Time { return &t }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HasText reports whether s is set and non-empty.
func HasText(s *string) bool {
	return s != nil && *s != ""
}

// DecimalOr returns the pointed-to decimal or def.
func DecimalOr(d *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if d == nil {
		return def
	}
	return *d
}
