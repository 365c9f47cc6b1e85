package einvoice

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	money "github.com/rezonia/einvoice-converter/internal/decimal"
	"github.com/rezonia/einvoice-converter/internal/model"
)

// Imported is an invoice read back from CII XML
type Imported struct {
	Invoice *Invoice
	Profile Profile
	// Totals as stated in the document
	Totals Totals
}

// Import reads a CII document. Elements are matched by local name so any
// namespace prefix is accepted.
func Import(r io.Reader) (*Imported, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, model.NewParseError(model.SourceEInvoice, "root", "failed to parse XML", err)
	}
	return importDocument(doc)
}

// ImportBytes reads a CII document held in data
func ImportBytes(data []byte) (*Imported, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError(model.SourceEInvoice, "root", "failed to parse XML", err)
	}
	return importDocument(doc)
}

// IsCII reports whether data has a CrossIndustryInvoice root
func IsCII(data []byte) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return false
	}
	return doc.Root() != nil && localName(doc.Root()) == "CrossIndustryInvoice"
}

func importDocument(doc *etree.Document) (*Imported, error) {
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.SourceEInvoice, "root", "document has no root element", nil)
	}
	if localName(root) != "CrossIndustryInvoice" {
		return nil, model.NewParseError(model.SourceEInvoice, "root",
			fmt.Sprintf("unexpected root element %s", root.Tag), nil)
	}

	out := &Imported{Invoice: &Invoice{}}
	guideline := text(root, "ExchangedDocumentContext", "GuidelineSpecifiedDocumentContextParameter", "ID")
	if p, ok := ProfileByGuideline(guideline); ok {
		out.Profile = p
	}

	inv := out.Invoice
	readDocument(child(root, "ExchangedDocument"), inv)

	tx := child(root, "SupplyChainTradeTransaction")
	for _, line := range children(tx, "IncludedSupplyChainTradeLineItem") {
		inv.AddItem(readLine(line))
	}
	readAgreement(child(tx, "ApplicableHeaderTradeAgreement"), inv)
	readDelivery(child(tx, "ApplicableHeaderTradeDelivery"), inv)
	out.Totals = readSettlement(child(tx, "ApplicableHeaderTradeSettlement"), inv)

	return out, nil
}

func readDocument(el *etree.Element, inv *Invoice) {
	inv.Number = text(el, "ID")
	inv.DocumentName = text(el, "Name")
	inv.DocumentCode = text(el, "TypeCode")
	inv.IssueDate = dateAt(el, "IssueDateTime")
	for _, n := range children(el, "IncludedNote") {
		inv.AddNote(Note{
			Content: text(n, "Content"),
			Subject: SubjectCode(text(n, "SubjectCode")),
		})
	}
}

func readLine(el *etree.Element) *Item {
	item := &Item{}

	prod := child(el, "SpecifiedTradeProduct")
	item.Product = Product{
		Name:             text(prod, "Name"),
		Description:      text(prod, "Description"),
		SellerAssignedID: text(prod, "SellerAssignedID"),
		BuyerAssignedID:  text(prod, "BuyerAssignedID"),
		CountryOfOrigin:  text(prod, "OriginTradeCountry", "ID"),
	}
	for _, c := range children(prod, "ApplicableProductCharacteristic") {
		item.Product.AddAttribute(text(c, "Description"), text(c, "Value"))
	}

	agreement := child(el, "SpecifiedLineTradeAgreement")
	gross := child(agreement, "GrossPriceProductTradePrice")
	net := child(agreement, "NetPriceProductTradePrice")

	price := gross
	if price == nil {
		price = net
	}
	item.Price, _ = decimalAt(price, "ChargeAmount")
	if b, ok := decimalAt(price, "BasisQuantity"); ok {
		item.BasisQuantity = b
	} else {
		item.BasisQuantity = money.One
	}

	qty := path(el, "SpecifiedLineTradeDelivery", "BilledQuantity")
	item.Quantity, _ = decimalAt(qty)
	if qty != nil {
		item.Product.Unit = qty.SelectAttrValue("unitCode", "")
	}

	tax := path(el, "SpecifiedLineTradeSettlement", "ApplicableTradeTax")
	item.Product.VATPercent, _ = decimalAt(tax, "RateApplicablePercent")

	for _, ac := range children(gross, "AppliedTradeAllowanceCharge") {
		if text(ac, "ChargeIndicator", "Indicator") == "true" {
			continue
		}
		a := Allowance{
			Reason:     text(ac, "Reason"),
			ReasonCode: text(ac, "ReasonCode"),
			TaxPercent: item.Product.VATPercent,
		}
		a.Amount, _ = decimalAt(ac, "ActualAmount")
		item.AddAllowance(a)
	}
	return item
}

func readAgreement(el *etree.Element, inv *Invoice) {
	inv.ReferenceNumber = text(el, "BuyerReference")
	if p := child(el, "SellerTradeParty"); p != nil {
		inv.Sender = readParty(p)
	}
	if p := child(el, "BuyerTradeParty"); p != nil {
		inv.Recipient = readParty(p)
	}
	inv.SellerOrderReference = text(el, "SellerOrderReferencedDocument", "IssuerAssignedID")

	ref := child(el, "BuyerOrderReferencedDocument")
	inv.BuyerOrderReference = text(ref, "IssuerAssignedID")
	if t := dateAt(ref, "FormattedIssueDateTime"); t != nil {
		inv.BuyerOrderDate = t.Format("2006-01-02")
	}
}

func readParty(el *etree.Element) *TradeParty {
	p := &TradeParty{Name: text(el, "Name")}

	for _, g := range children(el, "GlobalID") {
		p.AddGlobalID(SchemedID{
			Scheme: g.SelectAttrValue("schemeID", ""),
			ID:     g.Text(),
		})
	}

	if org := child(el, "SpecifiedLegalOrganization"); org != nil {
		lo := &LegalOrganisation{
			ID:          text(org, "ID"),
			TradingName: text(org, "TradingBusinessName"),
		}
		if id := child(org, "ID"); id != nil {
			lo.Scheme = id.SelectAttrValue("schemeID", "")
		}
		p.LegalOrganisation = lo
	}

	if c := child(el, "DefinedTradeContact"); c != nil {
		p.Contact = &Contact{
			Name:  text(c, "PersonName"),
			Phone: text(c, "TelephoneUniversalCommunication", "CompleteNumber"),
			Fax:   text(c, "FaxUniversalCommunication", "CompleteNumber"),
			Email: text(c, "EmailURIUniversalCommunication", "URIID"),
		}
	}

	addr := child(el, "PostalTradeAddress")
	p.ZIP = text(addr, "PostcodeCode")
	p.Street = text(addr, "LineOne")
	p.AdditionalAddress = text(addr, "LineTwo")
	p.AdditionalAddressExtension = text(addr, "LineThree")
	p.Location = text(addr, "CityName")
	p.Country = text(addr, "CountryID")
	p.Email = text(el, "URIUniversalCommunication", "URIID")

	for _, reg := range children(el, "SpecifiedTaxRegistration") {
		id := child(reg, "ID")
		if id == nil {
			continue
		}
		switch id.SelectAttrValue("schemeID", "") {
		case "VA":
			p.VATID = text(reg, "ID")
		case "FC":
			p.TaxID = text(reg, "ID")
		}
	}
	return p
}

func readDelivery(el *etree.Element, inv *Invoice) {
	if p := child(el, "ShipToTradeParty"); p != nil {
		inv.Delivery = readParty(p)
	}
	inv.DeliveryDate = dateAt(el, "ActualDeliverySupplyChainEvent", "OccurrenceDateTime")
}

func readSettlement(el *etree.Element, inv *Invoice) Totals {
	inv.Currency = text(el, "InvoiceCurrencyCode")

	for _, means := range children(el, "SpecifiedTradeSettlementPaymentMeans") {
		account := child(means, "PayeePartyCreditorFinancialAccount")
		if account == nil {
			continue
		}
		if inv.Sender == nil {
			inv.Sender = &TradeParty{}
		}
		inv.Sender.BankDetails = append(inv.Sender.BankDetails, BankDetails{
			IBAN:        text(account, "IBANID"),
			AccountName: text(account, "AccountName"),
			BIC:         text(means, "PayeeSpecifiedCreditorFinancialInstitution", "BICID"),
		})
	}

	for _, terms := range children(el, "SpecifiedTradePaymentTerms") {
		pt := &PaymentTerms{
			Description: text(terms, "Description"),
			DueDate:     dateAt(terms, "DueDateDateTime"),
		}
		if d := child(terms, "ApplicableTradePaymentDiscountTerms"); d != nil {
			dt := &DiscountTerms{}
			dt.Percent, _ = decimalAt(d, "CalculationPercent")
			if period := child(d, "BasisPeriodMeasure"); period != nil {
				dt.BasePeriod, _ = strconv.Atoi(text(period))
				dt.Unit = period.SelectAttrValue("unitCode", "")
			}
			pt.Discount = dt
		}
		inv.AddPaymentTerms(pt)
	}

	var t Totals
	for _, tax := range children(el, "ApplicableTradeTax") {
		b := TaxBreakdown{Category: text(tax, "CategoryCode")}
		b.Rate, _ = decimalAt(tax, "RateApplicablePercent")
		b.Basis, _ = decimalAt(tax, "BasisAmount")
		b.Amount, _ = decimalAt(tax, "CalculatedAmount")
		t.Taxes = append(t.Taxes, b)
	}
	sum := child(el, "SpecifiedTradeSettlementHeaderMonetarySummation")
	t.LineTotal, _ = decimalAt(sum, "LineTotalAmount")
	t.TaxBasis, _ = decimalAt(sum, "TaxBasisTotalAmount")
	t.TaxTotal, _ = decimalAt(sum, "TaxTotalAmount")
	t.GrandTotal, _ = decimalAt(sum, "GrandTotalAmount")
	t.DuePayable, _ = decimalAt(sum, "DuePayableAmount")

	inv.InvoiceReferencedDocumentID = text(el, "InvoiceReferencedDocument", "IssuerAssignedID")
	return t
}
