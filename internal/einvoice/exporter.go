package einvoice

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-converter/internal/logger"
)

// Exporter writes invoices as CII XML
type Exporter struct {
	log zerolog.Logger
}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{log: logger.WithComponent("einvoice")}
}

// Export serializes inv for the named profile
func (e *Exporter) Export(inv *Invoice, profileName string) ([]byte, error) {
	profile, err := ProfileByName(profileName)
	if err != nil {
		return nil, err
	}
	return e.ExportProfile(inv, profile)
}

// ExportProfile serializes inv for profile
func (e *Exporter) ExportProfile(inv *Invoice, profile Profile) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NamespaceRSM)
	root.CreateAttr("xmlns:ram", NamespaceRAM)
	root.CreateAttr("xmlns:udt", NamespaceUDT)
	root.CreateAttr("xmlns:qdt", NamespaceQDT)

	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	add(ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter"), "ID", profile.GuidelineID)

	writeDocument(root.CreateElement("rsm:ExchangedDocument"), inv)

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	if profile.Lines {
		for n, item := range inv.Items {
			writeLine(tx.CreateElement("ram:IncludedSupplyChainTradeLineItem"), n+1, item)
		}
	}
	writeAgreement(tx.CreateElement("ram:ApplicableHeaderTradeAgreement"), inv)
	writeDelivery(tx.CreateElement("ram:ApplicableHeaderTradeDelivery"), inv)
	writeSettlement(tx.CreateElement("ram:ApplicableHeaderTradeSettlement"), inv)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write CII document: %w", err)
	}

	e.log.Debug().
		Str("profile", profile.Name).
		Str("invoice", inv.Number).
		Int("items", len(inv.Items)).
		Msg("e-invoice exported")
	return out, nil
}

func writeDocument(el *etree.Element, inv *Invoice) {
	add(el, "ID", inv.Number)
	add(el, "Name", inv.DocumentName)
	add(el, "TypeCode", inv.DocumentCode)
	addDate(el, "IssueDateTime", "udt", inv.IssueDate)
	for _, n := range inv.Notes {
		note := el.CreateElement("ram:IncludedNote")
		add(note, "Content", n.Content)
		add(note, "SubjectCode", string(n.Subject))
	}
}

func writeLine(el *etree.Element, lineID int, item *Item) {
	add(el.CreateElement("ram:AssociatedDocumentLineDocument"), "LineID", strconv.Itoa(lineID))

	p := item.Product
	prod := el.CreateElement("ram:SpecifiedTradeProduct")
	add(prod, "SellerAssignedID", p.SellerAssignedID)
	add(prod, "BuyerAssignedID", p.BuyerAssignedID)
	add(prod, "Name", p.Name)
	add(prod, "Description", p.Description)
	for _, a := range p.Attributes {
		c := prod.CreateElement("ram:ApplicableProductCharacteristic")
		add(c, "Description", a.Name)
		add(c, "Value", a.Value)
	}
	if p.CountryOfOrigin != "" {
		add(prod.CreateElement("ram:OriginTradeCountry"), "ID", p.CountryOfOrigin)
	}

	agreement := el.CreateElement("ram:SpecifiedLineTradeAgreement")
	gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
	add(gross, "ChargeAmount", precise(item.Price))
	basis(gross, item)
	for _, a := range item.Allowances {
		ac := gross.CreateElement("ram:AppliedTradeAllowanceCharge")
		ac.CreateElement("ram:ChargeIndicator").CreateElement("udt:Indicator").SetText("false")
		add(ac, "ActualAmount", precise(a.Amount))
		add(ac, "ReasonCode", a.ReasonCode)
		add(ac, "Reason", a.Reason)
	}
	net := agreement.CreateElement("ram:NetPriceProductTradePrice")
	add(net, "ChargeAmount", precise(item.NetPrice()))
	basis(net, item)

	qty := el.CreateElement("ram:SpecifiedLineTradeDelivery").CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", p.Unit)
	qty.SetText(precise(item.Quantity))

	settlement := el.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	add(tax, "TypeCode", "VAT")
	add(tax, "CategoryCode", item.TaxCategory())
	add(tax, "RateApplicablePercent", amount(p.VATPercent))
	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	add(sum, "LineTotalAmount", amount(item.LineTotal()))
}

func basis(price *etree.Element, item *Item) {
	q := price.CreateElement("ram:BasisQuantity")
	q.CreateAttr("unitCode", item.Product.Unit)
	q.SetText(precise(item.BasisQuantity))
}

func writeAgreement(el *etree.Element, inv *Invoice) {
	add(el, "BuyerReference", inv.ReferenceNumber)
	if inv.Sender != nil {
		writeParty(el.CreateElement("ram:SellerTradeParty"), inv.Sender)
	}
	if inv.Recipient != nil {
		writeParty(el.CreateElement("ram:BuyerTradeParty"), inv.Recipient)
	}
	if inv.SellerOrderReference != "" {
		add(el.CreateElement("ram:SellerOrderReferencedDocument"), "IssuerAssignedID", inv.SellerOrderReference)
	}
	if inv.BuyerOrderReference != "" {
		ref := el.CreateElement("ram:BuyerOrderReferencedDocument")
		add(ref, "IssuerAssignedID", inv.BuyerOrderReference)
		if t, err := time.Parse("2006-01-02", inv.BuyerOrderDate); err == nil {
			addDate(ref, "FormattedIssueDateTime", "qdt", &t)
		}
	}
}

func writeParty(el *etree.Element, p *TradeParty) {
	for _, id := range p.GlobalIDs {
		g := add(el, "GlobalID", id.ID)
		if g != nil {
			g.CreateAttr("schemeID", id.Scheme)
		}
	}
	add(el, "Name", p.Name)

	if lo := p.LegalOrganisation; lo != nil {
		org := el.CreateElement("ram:SpecifiedLegalOrganization")
		if id := add(org, "ID", lo.ID); id != nil && lo.Scheme != "" {
			id.CreateAttr("schemeID", lo.Scheme)
		}
		add(org, "TradingBusinessName", lo.TradingName)
	}

	if c := p.Contact; c != nil {
		contact := el.CreateElement("ram:DefinedTradeContact")
		add(contact, "PersonName", c.Name)
		if c.Phone != "" {
			add(contact.CreateElement("ram:TelephoneUniversalCommunication"), "CompleteNumber", c.Phone)
		}
		if c.Fax != "" {
			add(contact.CreateElement("ram:FaxUniversalCommunication"), "CompleteNumber", c.Fax)
		}
		if c.Email != "" {
			add(contact.CreateElement("ram:EmailURIUniversalCommunication"), "URIID", c.Email)
		}
	}

	addr := el.CreateElement("ram:PostalTradeAddress")
	add(addr, "PostcodeCode", p.ZIP)
	add(addr, "LineOne", p.Street)
	add(addr, "LineTwo", p.AdditionalAddress)
	add(addr, "LineThree", p.AdditionalAddressExtension)
	add(addr, "CityName", p.Location)
	add(addr, "CountryID", p.Country)

	if p.Email != "" {
		uri := add(el.CreateElement("ram:URIUniversalCommunication"), "URIID", p.Email)
		uri.CreateAttr("schemeID", "EM")
	}
	registration(el, "FC", p.TaxID)
	registration(el, "VA", p.VATID)
}

func registration(el *etree.Element, scheme, id string) {
	if id == "" {
		return
	}
	reg := add(el.CreateElement("ram:SpecifiedTaxRegistration"), "ID", id)
	reg.CreateAttr("schemeID", scheme)
}

func writeDelivery(el *etree.Element, inv *Invoice) {
	if inv.Delivery != nil {
		writeParty(el.CreateElement("ram:ShipToTradeParty"), inv.Delivery)
	}
	if inv.DeliveryDate != nil {
		addDate(el.CreateElement("ram:ActualDeliverySupplyChainEvent"), "OccurrenceDateTime", "udt", inv.DeliveryDate)
	}
}

func writeSettlement(el *etree.Element, inv *Invoice) {
	add(el, "InvoiceCurrencyCode", inv.Currency)

	if inv.Sender != nil {
		for _, b := range inv.Sender.BankDetails {
			if b.IBAN == "" && b.BIC == "" {
				continue
			}
			means := el.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
			add(means, "TypeCode", "58")
			account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
			add(account, "IBANID", b.IBAN)
			add(account, "AccountName", b.AccountName)
			if b.BIC != "" {
				add(means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution"), "BICID", b.BIC)
			}
		}
	}

	totals := Calculate(inv)
	for _, t := range totals.Taxes {
		tax := el.CreateElement("ram:ApplicableTradeTax")
		add(tax, "CalculatedAmount", amount(t.Amount))
		add(tax, "TypeCode", "VAT")
		add(tax, "BasisAmount", amount(t.Basis))
		add(tax, "CategoryCode", t.Category)
		add(tax, "RateApplicablePercent", amount(t.Rate))
	}

	for _, pt := range inv.PaymentTerms {
		terms := el.CreateElement("ram:SpecifiedTradePaymentTerms")
		add(terms, "Description", pt.Description)
		addDate(terms, "DueDateDateTime", "udt", pt.DueDate)
		if d := pt.Discount; d != nil {
			discount := terms.CreateElement("ram:ApplicableTradePaymentDiscountTerms")
			period := add(discount, "BasisPeriodMeasure", strconv.Itoa(d.BasePeriod))
			period.CreateAttr("unitCode", d.Unit)
			add(discount, "CalculationPercent", precise(d.Percent))
		}
	}

	sum := el.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	add(sum, "LineTotalAmount", amount(totals.LineTotal))
	add(sum, "TaxBasisTotalAmount", amount(totals.TaxBasis))
	taxTotal := add(sum, "TaxTotalAmount", amount(totals.TaxTotal))
	if inv.Currency != "" {
		taxTotal.CreateAttr("currencyID", inv.Currency)
	}
	add(sum, "GrandTotalAmount", amount(totals.GrandTotal))
	add(sum, "DuePayableAmount", amount(totals.DuePayable))

	if inv.InvoiceReferencedDocumentID != "" {
		add(el.CreateElement("ram:InvoiceReferencedDocument"), "IssuerAssignedID", inv.InvoiceReferencedDocumentID)
	}
}
