package einvoice

import (
	"sort"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/einvoice-converter/internal/decimal"
)

var hundred = money.FromInt(100)

// NetPrice is the price per basis quantity after line allowances
func (i *Item) NetPrice() decimal.Decimal {
	price := i.Price
	for _, a := range i.Allowances {
		price = price.Sub(a.Amount)
	}
	return price
}

// LineTotal is quantity times net price divided by the basis quantity,
// rounded half up to cents
func (i *Item) LineTotal() decimal.Decimal {
	return money.Rescale(i.NetPrice(), i.Quantity, i.BasisQuantity)
}

// TaxCategory is S for a positive VAT rate and Z otherwise
func (i *Item) TaxCategory() string {
	return taxCategory(i.Product.VATPercent)
}

func taxCategory(rate decimal.Decimal) string {
	if money.IsPositive(rate) {
		return "S"
	}
	return "Z"
}

// TaxBreakdown is the VAT of all lines sharing one rate
type TaxBreakdown struct {
	Category string
	Rate     decimal.Decimal
	Basis    decimal.Decimal
	Amount   decimal.Decimal
}

// Totals are the monetary summation of an invoice
type Totals struct {
	LineTotal  decimal.Decimal
	TaxBasis   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	DuePayable decimal.Decimal
	Taxes      []TaxBreakdown
}

// Calculate sums the lines of inv, grouping VAT by rate
func Calculate(inv *Invoice) Totals {
	byRate := map[string]*TaxBreakdown{}
	t := Totals{LineTotal: money.Zero}

	for _, item := range inv.Items {
		line := item.LineTotal()
		t.LineTotal = t.LineTotal.Add(line)

		rate := item.Product.VATPercent
		key := rate.String()
		b, ok := byRate[key]
		if !ok {
			b = &TaxBreakdown{Category: taxCategory(rate), Rate: rate, Basis: money.Zero}
			byRate[key] = b
		}
		b.Basis = b.Basis.Add(line)
	}

	t.TaxTotal = money.Zero
	for _, b := range byRate {
		b.Amount = money.Div(b.Basis.Mul(b.Rate), hundred)
		t.TaxTotal = t.TaxTotal.Add(b.Amount)
		t.Taxes = append(t.Taxes, *b)
	}
	sort.Slice(t.Taxes, func(i, j int) bool {
		return t.Taxes[i].Rate.GreaterThan(t.Taxes[j].Rate)
	})

	t.TaxBasis = t.LineTotal
	t.GrandTotal = t.TaxBasis.Add(t.TaxTotal)
	t.DuePayable = t.GrandTotal
	return t
}
