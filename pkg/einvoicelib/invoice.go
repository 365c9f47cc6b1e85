// Package einvoicelib provides a public API for converting ERP invoice
// exports to ZUGFeRD/XRechnung e-invoices and back.
//
// Example usage:
//
//	conv := einvoicelib.NewDefaultConverter()
//	res, err := conv.Convert(ctx, reader, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Profile, len(res.XML))
package einvoicelib

import (
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/model"
)

// Re-export core types for public API
type (
	Invoice        = model.Invoice
	Item           = model.Item
	SubItem        = model.SubItem
	Address        = model.Address
	Person         = model.Person
	ConversionKeys = model.ConversionKeys
	Profile        = einvoice.Profile
)

// Re-export conversion key names
const (
	KeyInterface    = model.KeyInterface
	KeyPersonalData = model.KeyPersonalData
	KeyZBDetails    = model.KeyZBDetails
)

// Re-export profiles
var (
	ProfileExtended  = einvoice.ProfileExtended
	ProfileXRechnung = einvoice.ProfileXRechnung
)

// Re-export error types
type (
	ParseError        = model.ParseError
	InterfaceError    = model.InterfaceError
	ExportFormatError = model.ExportFormatError
	ProfileError      = model.ProfileError
)

// Re-export sentinel errors
var (
	ErrMalformedInput    = model.ErrMalformedInput
	ErrUnknownInterface  = model.ErrUnknownInterface
	ErrUnsupportedFormat = model.ErrUnsupportedFormat
	ErrProfileNotFound   = model.ErrProfileNotFound
)

// NewConversionKeys builds keys from a plain map
func NewConversionKeys(m map[string]string) ConversionKeys {
	return model.NewConversionKeys(m)
}
