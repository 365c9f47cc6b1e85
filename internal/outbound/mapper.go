// Package outbound maps the intermediate invoice onto an e-invoice and
// selects the profile it is written in.
package outbound

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-converter/internal/codes"
	money "github.com/rezonia/einvoice-converter/internal/decimal"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

// Interface codes
const (
	InterfaceDomestic    = "Z"
	InterfaceCrossBorder = "X"
)

// Line discounts are emitted as one allowance with this reason
const (
	DiscountReason     = "Rabatt"
	DiscountReasonCode = "60"
)

const (
	discountTiers         = 2
	customsLabelGerman    = "Zolltarifnr."
	customsLabelEnglish   = "Customs tariff number"
	managingDirectorLabel = "Managing director: "
)

// Layouts accepted for NETTODATUM
var netDateLayouts = []string{"2006-01-02T15:04:05.000", "02.01.2006 15:04:05"}

// Mapper converts intermediate invoices to e-invoices
type Mapper struct {
	tables           *codes.Tables
	defaultInterface string
	log              zerolog.Logger
}

// Option configures a Mapper
type Option func(*Mapper)

// WithTables sets the unit and document code tables
func WithTables(t *codes.Tables) Option {
	return func(m *Mapper) {
		if t != nil {
			m.tables = t
		}
	}
}

// WithDefaultInterface sets the interface used when neither the keys nor
// the invoice name one
func WithDefaultInterface(code string) Option {
	return func(m *Mapper) {
		m.defaultInterface = strings.TrimSpace(code)
	}
}

// NewMapper creates a mapper
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		tables: codes.Default(),
		log:    logger.WithComponent("outbound"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Interface resolves the interface code: the INTERFACE key, then the
// invoice's e-invoice data, then the configured default, then Z.
func (m *Mapper) Interface(inv *model.Invoice, keys model.ConversionKeys) string {
	if v, ok := keys.Interface(); ok && v != "" {
		return v
	}
	if model.HasText(inv.EInvoice.InterfaceType) {
		return *inv.EInvoice.InterfaceType
	}
	if m.defaultInterface != "" {
		return m.defaultInterface
	}
	return InterfaceDomestic
}

// ProfileFor maps an interface code to its profile
func ProfileFor(code string) (einvoice.Profile, error) {
	switch code {
	case InterfaceDomestic:
		return einvoice.ProfileExtended, nil
	case InterfaceCrossBorder:
		return einvoice.ProfileXRechnung, nil
	}
	return einvoice.Profile{}, model.NewInterfaceError(code)
}

// InterfaceFor returns the interface code a profile is written for
func InterfaceFor(p einvoice.Profile) (string, bool) {
	switch p.Name {
	case einvoice.ProfileExtended.Name:
		return InterfaceDomestic, true
	case einvoice.ProfileXRechnung.Name:
		return InterfaceCrossBorder, true
	}
	return "", false
}

// Map builds the e-invoice for inv and resolves its profile. An unknown
// interface code is the only failure.
func (m *Mapper) Map(inv *model.Invoice, keys model.ConversionKeys) (*einvoice.Invoice, einvoice.Profile, error) {
	iface := m.Interface(inv, keys)
	profile, err := ProfileFor(iface)
	if err != nil {
		return nil, einvoice.Profile{}, err
	}

	out := &einvoice.Invoice{}
	m.mapMetadata(inv, out)
	m.mapDates(inv, out)
	m.mapParties(inv, out)
	m.mapPaymentTerms(inv, out, iface)
	m.mapTexts(inv, out)
	for _, item := range inv.Items {
		out.AddItem(m.mapItem(inv, item))
	}

	m.log.Debug().
		Str("interface", iface).
		Str("profile", profile.Name).
		Str("invoice", out.Number).
		Int("items", len(out.Items)).
		Msg("invoice mapped")
	return out, profile, nil
}

func (m *Mapper) mapMetadata(inv *model.Invoice, out *einvoice.Invoice) {
	md := inv.Metadata
	out.Number = model.Deref(md.InvoiceNumber)
	out.Currency = model.Deref(md.Currency)
	out.BuyerOrderReference = model.Deref(md.CustomerOrderNumber)
	if md.OrderDate != nil {
		out.BuyerOrderDate = md.OrderDate.Format("2006-01-02")
	}
	out.DocumentCode = m.tables.DocumentCode(md.InvoiceType)
	out.DocumentName = model.Deref(md.InvoiceTypeLabel)
	out.InvoiceReferencedDocumentID = model.Deref(md.OriginalInvoice)
	out.DeliveryDate = md.DeliveryDate
	out.SellerOrderReference = model.Deref(md.OrderNumber)
	out.ReferenceNumber = model.Deref(inv.EInvoice.RouteID)
}

func (m *Mapper) mapDates(inv *model.Invoice, out *einvoice.Invoice) {
	extra := inv.Metadata.AdditionalData
	if v, ok := extra.Get(model.KeyInvoiceDate); ok {
		if t := schema.ParseDate(v); t != nil {
			out.IssueDate = t
		} else {
			m.log.Debug().Str("field", model.KeyInvoiceDate).Str("value", v).Msg("unparseable date ignored")
		}
	}
	if v, ok := extra.Get(model.KeyServiceDate); ok && out.DeliveryDate == nil {
		out.DeliveryDate = schema.ParseDate(v)
	}
}

func (m *Mapper) mapParties(inv *model.Invoice, out *einvoice.Invoice) {
	seller := tradeParty(inv.SellerAddress)
	seller.Contact = processorContact(inv.Processor)
	if reg := inv.SellerAddress.CommercialRegister; reg != nil {
		seller.LegalOrganisation = &einvoice.LegalOrganisation{
			ID:          *reg,
			Scheme:      einvoice.SchemeCommercialRegister,
			TradingName: seller.Name,
		}
	}
	if gf1 := inv.SellerAddress.ManagingDirector1; gf1 != nil {
		names := *gf1
		if gf2 := inv.SellerAddress.ManagingDirector2; gf2 != nil {
			names += ", " + *gf2
		}
		out.AddNote(einvoice.RegulatoryNote(managingDirectorLabel + names))
	}
	out.Sender = seller

	out.Recipient = tradeParty(inv.InvoiceAddress)

	delivery := inv.ManualDeliveryAddress
	if !model.HasText(delivery.CompanyName1) {
		delivery = inv.DeliveryAddress
	}
	out.Delivery = tradeParty(delivery)
}

// tradeParty maps an address one to one
func tradeParty(a model.Address) *einvoice.TradeParty {
	p := &einvoice.TradeParty{
		Name:                       model.Deref(a.CompanyName1),
		AdditionalAddress:          model.Deref(a.CompanyName2),
		AdditionalAddressExtension: model.Deref(a.CompanyName3),
		Street:                     model.Deref(a.Street),
		ZIP:                        model.Deref(a.PostalCode),
		Location:                   model.Deref(a.City),
		Country:                    model.Deref(a.CountryISO),
		Email:                      model.Deref(a.Email),
		TaxID:                      model.Deref(a.TaxNumber),
		VATID:                      model.Deref(a.VATID),
	}
	if model.HasText(a.GLNID) {
		p.AddGlobalID(einvoice.SchemedID{Scheme: einvoice.SchemeGLN, ID: *a.GLNID})
	}
	if a.Phone != nil || a.Fax != nil || a.Email != nil || a.Name != nil {
		p.Contact = &einvoice.Contact{
			Name:  model.Deref(a.Name),
			Phone: model.Deref(a.Phone),
			Fax:   model.Deref(a.Fax),
			Email: model.Deref(a.Email),
		}
	}
	p.BankDetails = []einvoice.BankDetails{{
		IBAN:        model.Deref(a.IBAN),
		BIC:         model.Deref(a.BIC),
		AccountName: model.Deref(a.CompanyName1),
	}}
	return p
}

func processorContact(p model.Person) *einvoice.Contact {
	return &einvoice.Contact{
		Name:  model.Deref(p.Name),
		Phone: model.Deref(p.Phone),
		Fax:   model.Deref(p.Fax),
		Email: model.Deref(p.Email),
	}
}

func (m *Mapper) mapPaymentTerms(inv *model.Invoice, out *einvoice.Invoice, iface string) {
	pt := inv.PaymentTerms
	text := model.Deref(pt.Text)

	primary := &einvoice.PaymentTerms{Description: text}
	if v, ok := pt.AdditionalData.Get(model.KeyNetDate); ok {
		primary.DueDate = m.parseNetDate(v)
	} else {
		primary.DueDate = pt.ValueDate
	}
	out.AddPaymentTerms(primary)

	if iface == InterfaceCrossBorder {
		return
	}
	for tier := 1; tier <= discountTiers; tier++ {
		pct := pt.AdditionalData.Value(fmt.Sprintf("%s%d", model.KeyDiscountPercentPref, tier))
		days := pt.AdditionalData.Value(fmt.Sprintf("%s%d", model.KeyDiscountDaysPrefix, tier))
		if pct == "" || days == "" {
			continue
		}
		period, err := strconv.Atoi(strings.TrimSpace(days))
		if err != nil {
			m.log.Debug().Int("tier", tier).Str("value", days).Msg("unparseable discount days")
		}
		out.AddPaymentTerms(&einvoice.PaymentTerms{
			Description: fmt.Sprintf("%s - SKONTO %d - %s%%", text, tier, pct),
			Discount: &einvoice.DiscountTerms{
				Percent:    money.OrZero(pct),
				BasePeriod: period,
				Unit:       "DAY",
			},
		})
	}
}

func (m *Mapper) parseNetDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range netDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	m.log.Debug().Str("field", model.KeyNetDate).Str("value", v).Msg("unparseable date ignored")
	return nil
}

func (m *Mapper) mapTexts(inv *model.Invoice, out *einvoice.Invoice) {
	t := inv.Texts
	for _, n := range []struct {
		text *string
		note func(string) einvoice.Note
	}{
		{t.Standard, einvoice.GeneralNote},
		{t.Footer, einvoice.RegulatoryNote},
		{t.Free, einvoice.UnspecifiedNote},
		{t.Customer, einvoice.SellerNote},
		{t.Header, einvoice.IntroductionNote},
	} {
		if model.HasText(n.text) {
			out.AddNote(n.note(*n.text))
		}
	}
}

func (m *Mapper) mapItem(inv *model.Invoice, item *model.Item) *einvoice.Item {
	a := item.Amounts
	qty := model.DecimalOr(item.Quantity, money.One)
	pkg := money.NonZeroOr(a.PackageQuantity, money.One)
	vat := model.DecimalOr(a.Tax.Rate, money.Zero)

	out := &einvoice.Item{
		Price:         model.DecimalOr(a.Net, money.Zero),
		Quantity:      qty,
		BasisQuantity: pkg,
		Tax:           model.DecimalOr(a.Tax.Amount, money.Zero),
		Product: einvoice.Product{
			Name:             model.Deref(item.Text.Name),
			Description:      model.Deref(item.Text.Text),
			SellerAssignedID: model.Deref(item.MasterData.ArticleNumber),
			BuyerAssignedID:  model.Deref(item.MasterData.CustomerArticleNumber),
			CountryOfOrigin:  model.Deref(item.MasterData.CountryOfOrigin),
			Unit:             m.tables.UnitCode(model.Deref(item.Unit)),
			VATPercent:       vat,
		},
	}

	discount := money.Sum(
		model.DecimalOr(a.DiscountAmount, money.Zero),
		model.DecimalOr(a.DiscountAmount2, money.Zero),
		model.DecimalOr(a.QuantityDiscountAmount, money.Zero),
	)
	if money.IsPositive(discount) {
		out.AddAllowance(einvoice.Allowance{
			Amount:     money.Rescale(discount, pkg, qty),
			Reason:     DiscountReason,
			ReasonCode: DiscountReasonCode,
			TaxPercent: vat,
		})
	}

	if model.HasText(item.MasterData.CustomsTariffNumber) {
		out.Product.AddAttribute(customsLabel(inv.Metadata.Language), *item.MasterData.CustomsTariffNumber)
	}
	return out
}

func customsLabel(language *string) string {
	if !model.HasText(language) || strings.EqualFold(*language, "de") {
		return customsLabelGerman
	}
	return customsLabelEnglish
}
