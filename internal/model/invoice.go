package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the intermediate invoice: the pivot between the ERP export,
// the interchange formats and the e-invoice object.
//
// Every optional scalar is a pointer; nil means the source did not carry
// the value. Sub-records are held by value and are never nil.
type Invoice struct {
	SellerAddress         Address
	CustomerAddress       Address
	DeliveryAddress       Address
	ManualDeliveryAddress Address
	InvoiceAddress        Address
	Processor             Person

	Metadata      Metadata
	Amounts       Amounts
	PaymentTerms  PaymentTerms
	Tax           Tax
	ShippingCosts ShippingCosts
	Texts         Texts
	EInvoice      EInvoiceData

	Items []*Item
}

// NewInvoice returns an invoice with every sub-record initialized.
func NewInvoice() *Invoice {
	return &Invoice{
		Metadata:     Metadata{AdditionalData: NewAdditionalData()},
		PaymentTerms: PaymentTerms{AdditionalData: NewAdditionalData()},
		Items:        []*Item{},
	}
}

// AddItem appends a line item, initializing its sub-item list if needed.
func (inv *Invoice) AddItem(item *Item) {
	if item.SubItems == nil {
		item.SubItems = []*SubItem{}
	}
	inv.Items = append(inv.Items, item)
}

// Address is a trade party address block
type Address struct {
	GLNID              *string
	CompanyName1       *string
	CompanyName2       *string
	CompanyName3       *string
	CountryISO         *string
	Name               *string // contact name
	Department         *string
	City               *string
	PostalCode         *string
	PostalCode2        *string
	Street             *string
	Fax                *string
	Phone              *string
	Email              *string
	DUNSNumber         *string
	VATID              *string
	CommercialRegister *string
	ManagingDirector1  *string
	ManagingDirector2  *string
	TaxNumber          *string
	BIC                *string
	IBAN               *string
	PaymentMethods     *string
}

// Person is the contact handling the invoice
type Person struct {
	Name       *string
	Email      *string
	Phone      *string
	Fax        *string
	Department *string
}

// Metadata holds document-level identification
type Metadata struct {
	InvoiceNumber       *string
	InvoiceType         *string // ERP document code, e.g. RE, TR, GU
	InvoiceTypeLabel    *string
	Currency            *string
	CustomerOrderNumber *string
	OrderDate           *time.Time
	OriginalInvoice     *string
	OrderNumber         *string
	Language            *string
	DeliveryDate        *time.Time

	// AdditionalData carries values without a first-class slot,
	// e.g. the raw INVOICE_DATE and SERVICE_DATE strings.
	AdditionalData *AdditionalData
}

// Metadata additional-data keys
const (
	KeyInvoiceDate = "INVOICE_DATE"
	KeyServiceDate = "SERVICE_DATE"
)

// PaymentTerms holds the payment condition of the invoice
type PaymentTerms struct {
	Text      *string
	ValueDate *time.Time

	// AdditionalData carries early-payment discount tiers
	// (PROZENTSKONTO1, SKONTOTAGE1, ...) and NETTODATUM.
	AdditionalData *AdditionalData
}

// Payment-term additional-data keys
const (
	KeyNetDate             = "NETTODATUM"
	KeyDiscountPercentPref = "PROZENTSKONTO"
	KeyDiscountDaysPrefix  = "SKONTOTAGE"
)

// Texts are the five free-text blocks of an invoice
type Texts struct {
	Standard *string
	Free     *string
	Customer *string
	Footer   *string
	Header   *string
}

// EInvoiceData holds routing information for the e-invoice
type EInvoiceData struct {
	RouteID        *string // government routing code (Leitweg-ID)
	DispatchMethod *string
	InterfaceType  *string // Z = domestic extended, X = cross-border
}

// Amounts are the invoice-level totals
type Amounts struct {
	DiscountAmount *decimal.Decimal
	NetAmount      *decimal.Decimal
	TaxAmount      *decimal.Decimal
	GrossAmount    *decimal.Decimal
}

// Tax is the invoice-level tax summary
type Tax struct {
	Category *string
	Amount   *decimal.Decimal
	Rate     *decimal.Decimal
	Base     *decimal.Decimal
}

// ShippingCosts is the freight charge and its tax
type ShippingCosts struct {
	Amount      *decimal.Decimal
	TaxCategory *string
	TaxRate     *decimal.Decimal
}

// Item is one invoice line
type Item struct {
	Amounts      ItemAmounts
	MasterData   ItemMasterData
	Text         ItemText
	References   ItemReferences
	SpecialFlags ItemSpecialFlags

	Date               *time.Time
	DontPrint          *bool
	DontPrintPrice     *bool
	PrintPosition      *bool
	Inventory          *string
	IsBOM              *bool
	ServiceDate        *time.Time
	Quantity           *decimal.Decimal
	Position           *string
	Unit               *string
	MaterialCostType   *string
	MaterialCostAmount *decimal.Decimal

	SubItems []*SubItem
}

// NewItem returns an item with an empty sub-item list.
func NewItem() *Item {
	return &Item{SubItems: []*SubItem{}}
}

// ItemAmounts are the monetary values of a line or sub-line
type ItemAmounts struct {
	Revenue                *decimal.Decimal
	NetRevenue             *decimal.Decimal
	Gross                  *decimal.Decimal
	Net                    *decimal.Decimal
	NetApplication         *decimal.Decimal
	PackageQuantity        *decimal.Decimal
	PricePerUnit           *string // price unit label, not a number
	Price                  *decimal.Decimal
	QuantityDiscount       *decimal.Decimal
	QuantityDiscountAmount *decimal.Decimal
	Discount               *decimal.Decimal
	Discount2              *decimal.Decimal
	DiscountAmount         *decimal.Decimal
	DiscountAmount2        *decimal.Decimal
	UnitRevenue            *decimal.Decimal
	Tax                    ItemTax
}

// ItemTax is the tax of a single line
type ItemTax struct {
	Amount   *decimal.Decimal
	Category *string
	Rate     *decimal.Decimal
}

// ItemMasterData holds article data of a line
type ItemMasterData struct {
	Batch                 *string
	CountryOfOrigin       *string
	CustomsTariffNumber   *string
	EANCode               *string
	ArticleNumber         *string
	CustomerArticleNumber *string
}

// ItemText holds the descriptive texts of a line
type ItemText struct {
	QuantityText *string
	Name         *string
	Text         *string
}

// ItemReferences link a line to its originating documents
type ItemReferences struct {
	OriginalInvoice         *string
	OriginalInvoicePosition *string
	Order                   *string
	OrderPosition           *string
	DeliveryNote            *string
}

// ItemSpecialFlags mark non-regular positions
type ItemSpecialFlags struct {
	TextPosition   *string
	ChapterSum     *string
	Subtotal       *string
	SubtotalTo     *string
	SubtotalFrom   *string
	Package        *string
	IsPackagePrice *bool
}

// SubItem is a nested position line of an item
type SubItem struct {
	Amounts    ItemAmounts
	MasterData ItemMasterData
	Text       ItemText

	Date           *time.Time
	DontCalculate  *string
	DontPrint      *string
	DontPrintPrice *string
	Quantity       *decimal.Decimal
	Position       *string
	SubPosition    *string
	Unit           *string
}
