// Package reverse maps an e-invoice back onto the intermediate invoice.
// Only fields that survive the outbound mapping are restored.
package reverse

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-converter/internal/codes"
	money "github.com/rezonia/einvoice-converter/internal/decimal"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/model"
)

// Attribute names that carry the customs tariff number
var customsLabels = []string{"Zolltarifnr.", "Customs tariff number"}

// Mapper converts e-invoices to intermediate invoices
type Mapper struct {
	tables *codes.Tables
	log    zerolog.Logger
}

// NewMapper creates a mapper; nil tables select the embedded ones
func NewMapper(tables *codes.Tables) *Mapper {
	if tables == nil {
		tables = codes.Default()
	}
	return &Mapper{tables: tables, log: logger.WithComponent("reverse")}
}

// Map builds the intermediate invoice for src. An INTERFACE key is kept
// as the invoice's interface type.
func (m *Mapper) Map(src *einvoice.Invoice, keys model.ConversionKeys) *model.Invoice {
	inv := model.NewInvoice()
	m.mapMetadata(src, inv)
	if v, ok := keys.Interface(); ok {
		inv.EInvoice.InterfaceType = model.String(v)
	}
	m.mapParties(src, inv)
	mapPaymentTerms(src, inv)
	mapNotes(src, inv)
	for _, item := range src.Items {
		inv.AddItem(m.mapItem(item))
	}

	m.log.Debug().
		Str("invoice", src.Number).
		Int("items", len(inv.Items)).
		Msg("e-invoice mapped back")
	return inv
}

// opt maps the empty string to absent
func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (m *Mapper) mapMetadata(src *einvoice.Invoice, inv *model.Invoice) {
	md := &inv.Metadata
	md.InvoiceNumber = opt(src.Number)
	md.Currency = opt(src.Currency)
	md.CustomerOrderNumber = opt(src.BuyerOrderReference)
	md.OrderNumber = opt(src.SellerOrderReference)
	md.OriginalInvoice = opt(src.InvoiceReferencedDocumentID)
	md.InvoiceType = model.String(m.tables.DocumentType(src.DocumentCode))
	md.InvoiceTypeLabel = opt(src.DocumentName)

	if src.IssueDate != nil {
		md.AdditionalData.Set(model.KeyInvoiceDate, src.IssueDate.Format("2006-01-02"))
	}
	if src.DeliveryDate != nil {
		md.DeliveryDate = model.Date(dateOnly(*src.DeliveryDate))
	}
	if s := src.BuyerOrderDate; len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			md.OrderDate = &t
		} else {
			m.log.Debug().Str("value", s).Msg("unparseable order date ignored")
		}
	}

	inv.EInvoice.RouteID = opt(src.ReferenceNumber)
}

func (m *Mapper) mapParties(src *einvoice.Invoice, inv *model.Invoice) {
	if p := src.Sender; p != nil {
		address(p, &inv.SellerAddress)
		if c := p.Contact; c != nil {
			inv.Processor = model.Person{
				Name:  opt(c.Name),
				Phone: opt(c.Phone),
				Fax:   opt(c.Fax),
				Email: opt(c.Email),
			}
		}
	}
	if p := src.Recipient; p != nil {
		address(p, &inv.CustomerAddress)
		address(p, &inv.InvoiceAddress)
	}
	if p := src.Delivery; p != nil {
		address(p, &inv.DeliveryAddress)
		address(p, &inv.ManualDeliveryAddress)
	}
}

func address(p *einvoice.TradeParty, a *model.Address) {
	if gln, ok := p.GlobalID(einvoice.SchemeGLN); ok {
		a.GLNID = opt(gln)
	}
	a.CompanyName1 = opt(p.Name)
	a.CompanyName2 = opt(p.AdditionalAddress)
	a.CompanyName3 = opt(p.AdditionalAddressExtension)
	a.Street = opt(p.Street)
	a.City = opt(p.Location)
	a.PostalCode = opt(p.ZIP)
	a.CountryISO = opt(p.Country)
	a.Email = opt(p.Email)
	a.VATID = opt(p.VATID)
	a.TaxNumber = opt(p.TaxID)

	if len(p.BankDetails) > 0 {
		a.IBAN = opt(p.BankDetails[0].IBAN)
		a.BIC = opt(p.BankDetails[0].BIC)
	}
	if lo := p.LegalOrganisation; lo != nil && lo.Scheme == einvoice.SchemeCommercialRegister {
		a.CommercialRegister = opt(lo.ID)
	}

	if c := p.Contact; c != nil {
		a.Name = opt(c.Name)
		a.Phone = opt(c.Phone)
		a.Fax = opt(c.Fax)
		if a.Email == nil {
			a.Email = opt(c.Email)
		}
	}
}

func mapPaymentTerms(src *einvoice.Invoice, inv *model.Invoice) {
	if len(src.PaymentTerms) == 0 {
		return
	}
	pt := &inv.PaymentTerms

	primary := src.PaymentTerms[0]
	pt.Text = opt(primary.Description)
	if primary.DueDate != nil {
		due := dateOnly(*primary.DueDate)
		pt.ValueDate = &due
		pt.AdditionalData.Set(model.KeyNetDate, due.Format("2006-01-02"))
	}

	for tier := 1; tier < len(src.PaymentTerms) && tier <= 2; tier++ {
		d := src.PaymentTerms[tier].Discount
		if d == nil {
			continue
		}
		pt.AdditionalData.Set(fmt.Sprintf("%s%d", model.KeyDiscountPercentPref, tier), d.Percent.String())
		pt.AdditionalData.Set(fmt.Sprintf("%s%d", model.KeyDiscountDaysPrefix, tier), strconv.Itoa(d.BasePeriod))
	}
}

// mapNotes routes each note to its text by subject; later notes win
func mapNotes(src *einvoice.Invoice, inv *model.Invoice) {
	t := &inv.Texts
	for _, n := range src.Notes {
		if n.Content == "" {
			continue
		}
		content := model.String(n.Content)
		switch n.Subject {
		case einvoice.SubjectGeneral:
			t.Standard = content
		case einvoice.SubjectRegulatory:
			t.Footer = content
		case einvoice.SubjectSeller:
			t.Customer = content
		case einvoice.SubjectIntroduction:
			t.Header = content
		default:
			t.Free = content
		}
	}
}

func (m *Mapper) mapItem(src *einvoice.Item) *model.Item {
	item := model.NewItem()
	item.Quantity = model.Decimal(src.Quantity)

	a := &item.Amounts
	a.Net = model.Decimal(src.Price)
	a.PackageQuantity = model.Decimal(src.BasisQuantity)

	if len(src.Allowances) > 0 {
		total := money.Zero
		for _, al := range src.Allowances {
			total = total.Add(al.Amount)
		}
		a.DiscountAmount = model.Decimal(total)
	}

	p := src.Product
	item.Text.Name = opt(p.Name)
	item.Text.Text = opt(p.Description)
	item.MasterData.ArticleNumber = opt(p.SellerAssignedID)
	item.MasterData.CustomerArticleNumber = opt(p.BuyerAssignedID)
	item.MasterData.CountryOfOrigin = opt(p.CountryOfOrigin)
	item.MasterData.CustomsTariffNumber = customsTariffNumber(p.Attributes)

	a.Tax.Rate = model.Decimal(p.VATPercent)
	item.Unit = model.String(m.tables.ERPUnit(p.Unit))
	return item
}

func customsTariffNumber(attrs []einvoice.Attribute) *string {
	for _, label := range customsLabels {
		for _, a := range attrs {
			if a.Name == label {
				return opt(a.Value)
			}
		}
	}
	return nil
}
