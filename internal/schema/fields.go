// Package schema defines the interchange vocabulary as data: one table per
// model section pairing an interchange key with a model field. The value
// policy for strings, decimals, dates and booleans lives in one place and
// every mapping direction is driven by the same tables.
package schema

import (
	"github.com/rezonia/einvoice-converter/internal/record"
)

// Field binds an interchange key to a field of T. Ref returns a pointer to
// the field, one of **string, **decimal.Decimal, **time.Time or **bool.
type Field[T any] struct {
	Key string
	Ref func(*T) any
}

// EncodeFields appends every set field of v to n
func EncodeFields[T any](n *record.Node, v *T, fields []Field[T]) {
	for _, f := range fields {
		encodeValue(n, f.Key, f.Ref(v))
	}
}

// DecodeFields reads every field present in n into v. Fields missing from n
// are left untouched.
func DecodeFields[T any](n *record.Node, v *T, fields []Field[T]) {
	if n == nil {
		return
	}
	for _, f := range fields {
		if raw, ok := n.Text(f.Key); ok {
			decodeValue(f.Key, raw, f.Ref(v))
		}
	}
}

// Keys lists the interchange keys of a table
func Keys[T any](fields []Field[T]) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Key
	}
	return out
}
