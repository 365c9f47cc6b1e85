// Package einvoice models a UN/CEFACT Cross Industry Invoice and reads and
// writes it in the ZUGFeRD/Factur-X and XRechnung profiles.
package einvoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an e-invoice ready for serialization. The zero value is an
// empty invoice; optional parties are nil.
type Invoice struct {
	Number       string
	Currency     string
	DocumentCode string // UNTDID 1001, e.g. 380
	DocumentName string

	IssueDate    *time.Time
	DeliveryDate *time.Time

	BuyerOrderReference         string
	BuyerOrderDate              string // yyyy-mm-dd
	SellerOrderReference        string
	InvoiceReferencedDocumentID string
	ReferenceNumber             string // buyer reference, e.g. a Leitweg-ID

	Sender    *TradeParty
	Recipient *TradeParty
	Delivery  *TradeParty

	PaymentTerms []*PaymentTerms
	Notes        []Note
	Items        []*Item
}

// AddItem appends a line
func (inv *Invoice) AddItem(item *Item) *Invoice {
	inv.Items = append(inv.Items, item)
	return inv
}

// AddNote appends a note
func (inv *Invoice) AddNote(n Note) *Invoice {
	inv.Notes = append(inv.Notes, n)
	return inv
}

// AddPaymentTerms appends a payment term
func (inv *Invoice) AddPaymentTerms(t *PaymentTerms) *Invoice {
	inv.PaymentTerms = append(inv.PaymentTerms, t)
	return inv
}

// SchemeGLN is the ISO 6523 scheme of a Global Location Number
const SchemeGLN = "0088"

// SchemeCommercialRegister identifies a legal organisation by register entry
const SchemeCommercialRegister = "0002"

// SchemedID is an identifier qualified by its issuing scheme
type SchemedID struct {
	Scheme string
	ID     string
}

// TradeParty is a seller, buyer or ship-to party
type TradeParty struct {
	Name                       string
	AdditionalAddress          string
	AdditionalAddressExtension string
	Street                     string
	ZIP                        string
	Location                   string
	Country                    string
	Email                      string
	TaxID                      string
	VATID                      string

	GlobalIDs         []SchemedID
	Contact           *Contact
	BankDetails       []BankDetails
	LegalOrganisation *LegalOrganisation
}

// AddGlobalID attaches an identifier such as a GLN
func (p *TradeParty) AddGlobalID(id SchemedID) *TradeParty {
	p.GlobalIDs = append(p.GlobalIDs, id)
	return p
}

// GlobalID returns the identifier issued under scheme
func (p *TradeParty) GlobalID(scheme string) (string, bool) {
	for _, id := range p.GlobalIDs {
		if id.Scheme == scheme {
			return id.ID, true
		}
	}
	return "", false
}

// Contact is a person to address questions to
type Contact struct {
	Name  string
	Phone string
	Fax   string
	Email string
}

// BankDetails is a creditor account
type BankDetails struct {
	IBAN        string
	BIC         string
	AccountName string
}

// LegalOrganisation identifies the registered legal entity of a party
type LegalOrganisation struct {
	ID          string
	Scheme      string
	TradingName string
}

// Item is one invoice line
type Item struct {
	Product       Product
	Price         decimal.Decimal // gross price per basis quantity
	Quantity      decimal.Decimal
	BasisQuantity decimal.Decimal
	Tax           decimal.Decimal // line tax amount as supplied by the sender
	Allowances    []Allowance
}

// AddAllowance attaches a discount to the line
func (i *Item) AddAllowance(a Allowance) *Item {
	i.Allowances = append(i.Allowances, a)
	return i
}

// Product describes what a line sells
type Product struct {
	Name             string
	Description      string
	SellerAssignedID string
	BuyerAssignedID  string
	CountryOfOrigin  string
	Unit             string // UN/ECE Recommendation 20 code
	VATPercent       decimal.Decimal
	Attributes       []Attribute
}

// AddAttribute attaches a named characteristic
func (p *Product) AddAttribute(name, value string) *Product {
	p.Attributes = append(p.Attributes, Attribute{Name: name, Value: value})
	return p
}

// Attribute is a named product characteristic
type Attribute struct {
	Name  string
	Value string
}

// Allowance is a discount on a line, expressed per basis quantity
type Allowance struct {
	Amount     decimal.Decimal
	Reason     string
	ReasonCode string // UNTDID 5189
	TaxPercent decimal.Decimal
}

// PaymentTerms is one payment condition
type PaymentTerms struct {
	Description string
	DueDate     *time.Time
	Discount    *DiscountTerms
}

// DiscountTerms grants a cash discount for payment within a period
type DiscountTerms struct {
	Percent    decimal.Decimal
	BasePeriod int
	Unit       string // period unit, e.g. DAY
}

// SubjectCode is the UNTDID 4451 subject of a note
type SubjectCode string

const (
	SubjectUnspecified  SubjectCode = ""
	SubjectGeneral      SubjectCode = "AAI"
	SubjectRegulatory   SubjectCode = "REG"
	SubjectSeller       SubjectCode = "AAB"
	SubjectIntroduction SubjectCode = "AAA"
)

// Note is a free text on the document
type Note struct {
	Content string
	Subject SubjectCode
}

// GeneralNote creates a note with general information
func GeneralNote(content string) Note { return Note{content, SubjectGeneral} }

// RegulatoryNote creates a note with regulatory information
func RegulatoryNote(content string) Note { return Note{content, SubjectRegulatory} }

// UnspecifiedNote creates a note without subject
func UnspecifiedNote(content string) Note { return Note{content, SubjectUnspecified} }

// SellerNote creates a note addressed by the seller to the buyer
func SellerNote(content string) Note { return Note{content, SubjectSeller} }

// IntroductionNote creates an introductory note
func IntroductionNote(content string) Note { return Note{content, SubjectIntroduction} }
