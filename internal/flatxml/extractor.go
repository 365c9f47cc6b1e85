// Package flatxml reads the ERP's flat invoice export. The export is a
// loose document in which every value is looked up by tag name anywhere
// below a context element; the extractor renders it as a record in the
// interchange vocabulary.
package flatxml

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

// Extractor turns ERP flat XML into an interchange record
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor creates an extractor
func NewExtractor() *Extractor {
	return &Extractor{log: logger.WithComponent("flatxml")}
}

// CanParse reports whether content looks like an ERP export
func (e *Extractor) CanParse(content []byte) bool {
	return bytes.Contains(content, []byte("<"+tagInvoice)) &&
		(bytes.Contains(content, []byte("<"+tagItem)) || bytes.Contains(content, []byte("<"+supplier.Address)))
}

// Extract reads the export from r
func (e *Extractor) Extract(ctx context.Context, r io.Reader, keys model.ConversionKeys) (*record.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.SourceERPXML, "root", "failed to read document", err)
	}
	return e.ExtractBytes(ctx, data, keys)
}

// ExtractBytes reads the export held in data. Only a document that cannot
// be parsed at all is an error; missing tags simply leave keys absent.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, keys model.ConversionKeys) (*record.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError(model.SourceERPXML, "root", "failed to parse XML", err)
	}
	if doc.Root() == nil {
		return nil, model.NewParseError(model.SourceERPXML, "root", "document has no root element", nil)
	}

	src := &source{doc: doc}
	inv := src.first(tagInvoice)
	root := record.NewSection(schema.Root)

	src.address(root, schema.SellerAddress, supplier, nil)
	src.address(root, schema.BuyerAddress, customer, nil)
	src.address(root, schema.DeliveryAddress, customerDeliver, &customer)
	copyTags(root.Add(record.NewSection(schema.ManualDeliveryAddress)), inv, manualDeliveryTags)
	src.address(root, schema.InvoiceAddress, customerInvoice, &customer)

	src.processor(root, keys.PersonalData())
	e.paymentTerms(root, src, inv, keys)

	texts := root.Add(record.NewSection(schema.Texts))
	setTag(texts, src.first(tagStdText), str("HTMLSTDTXT", "standard_text"))
	copyTags(texts, inv, invoiceTextTags)

	copyTags(root.Add(record.NewSection(schema.EInvoice)), inv, eInvoiceTags)
	copyTags(root, inv, documentTags)
	copyTags(root.Add(record.NewSection(schema.Amounts)), inv, amountTags)
	copyTags(root.Add(record.NewSection(schema.Tax)), src.first(tagTax), taxTags)
	copyTags(root.Add(record.NewSection(schema.ShippingCosts)), src.first(tagFreight), freightTags)

	items := root.Add(record.NewList(schema.InvoiceItems))
	subs := src.subItems()
	for _, el := range src.all(tagItem) {
		item := lineItem(el)
		list := item.Add(record.NewList(schema.SubItems))
		if link := el.SelectAttrValue(attrItemLink, ""); link != "" {
			for _, sub := range subs.get(link) {
				list.Add(sub)
			}
		}
		items.Add(item)
	}

	root.Prune(true)
	e.log.Debug().
		Int("items", len(items.Children)).
		Bool("personal_data", keys.PersonalData()).
		Msg("extracted ERP export")
	return root, nil
}

// paymentTerms reads the term text from the language-specific element when
// present and folds the ZBDETAILS fragment into additional data
func (e *Extractor) paymentTerms(root *record.Node, src *source, inv *etree.Element, keys model.ConversionKeys) {
	terms := root.Add(record.NewSection(schema.PaymentTerms))
	termsEl := src.first(tagTermsLang)
	if termsEl == nil {
		termsEl = src.first(tagTerms)
	}
	setTag(terms, termsEl, str("HTMLZBTXT", "payment_terms_text"))
	setTag(terms, inv, str("VALUTADATUM", "value_date"))

	details, err := ParseZBDetails(keys.ZBDetails())
	if err != nil {
		e.log.Warn().Err(err).Msg("skipping payment term details")
		return
	}
	extra := terms.Add(record.NewSection(schema.AdditionalData))
	details.Each(func(k, v string) {
		extra.SetString(k, &v)
	})
}

// lineItem renders one <rechnungpos>
func lineItem(el *etree.Element) *record.Node {
	item := record.NewSection(record.ItemName)
	lineAmounts(item, el)
	copyTags(item.Add(record.NewSection(schema.MasterData)), el, masterDataTags)

	text := item.Add(record.NewSection(schema.TextData))
	setTag(text, el, str("HTMLANZTEXT", "quantity_text"))
	if name, ok := value(el, "NAME"); ok && name != "" {
		text.SetString("name", &name)
	} else {
		setTag(text, el, str("NAMEINTERN", "name"))
	}
	setTag(text, el, str("HTMLTEXT", "text"))

	copyTags(item.Add(record.NewSection(schema.References)), el, referenceTags)

	flags := item.Add(record.NewSection(schema.SpecialFlags))
	copyTags(flags, el, flagTags)
	pos, hasPos := value(el, tagItemPosition)
	set, hasSet := value(el, tagItemSetNumber)
	packagePrice := "false"
	if hasPos && hasSet && pos == set {
		packagePrice = "true"
	}
	flags.Set("is_package_price", record.KindBool, &packagePrice)

	copyTags(item, el, itemTags)
	return item
}

// subItem renders one <rechnungpospos>. POSITION takes precedence over
// RECHNUNG for the position key.
func subItem(el *etree.Element) *record.Node {
	sub := record.NewSection(record.SubItemName)
	lineAmounts(sub, el)
	copyTags(sub.Add(record.NewSection(schema.MasterData)), el, masterDataTags)

	text := sub.Add(record.NewSection(schema.TextData))
	setTag(text, el, str("NAME", "name"))
	setTag(text, el, str("HTML", "text"))

	copyTags(sub, el, subItemTags)
	if pos, ok := value(el, tagItemPosition); ok {
		sub.SetString("position", &pos)
	} else {
		setTag(sub, el, str("RECHNUNG", "position"))
	}
	return sub
}

func lineAmounts(n *record.Node, el *etree.Element) {
	amounts := n.Add(record.NewSection(schema.Amounts))
	copyTags(amounts, el, itemAmountTags)
	copyTags(amounts.Add(record.NewSection(schema.Tax)), el, itemTaxTags)
}

// source wraps the parsed export
type source struct {
	doc *etree.Document
}

// first returns the first element called name anywhere in the document
func (s *source) first(name string) *etree.Element {
	return s.doc.FindElement("//" + name)
}

// all returns every element called name in document order
func (s *source) all(name string) []*etree.Element {
	return s.doc.FindElements("//" + name)
}

// address renders one address block. When fallback is set and the primary
// block yields no value at all, the fallback block is rendered instead.
func (s *source) address(root *record.Node, section string, p party, fallback *party) {
	n := s.readParty(section, p)
	if len(n.Children) == 0 && fallback != nil {
		n = s.readParty(section, *fallback)
	}
	root.Add(n)
}

func (s *source) readParty(section string, p party) *record.Node {
	n := record.NewSection(section)
	addr := s.first(p.Address)
	company := s.first(p.Company)

	copyTags(n, addr, addressTags)
	vat, ok := value(addr, tagVATID)
	if !ok || vat == "" {
		vat, ok = value(company, tagVATID)
	}
	if ok {
		n.SetString("vat_id", &vat)
	}
	copyTags(n, company, companyTags)
	copyTags(n, s.first(p.Bank), bankTags)
	return n
}

// processor renders the invoice clerk. The name always comes from
// <personal>; contact data comes from <personal> in personnel mode and
// from <personalAdresse> otherwise.
func (s *source) processor(root *record.Node, personnel bool) {
	n := root.Add(record.NewSection(schema.Processor))
	personal := s.first(tagPersonal)
	setTag(n, personal, str("NAME", "name"))
	if personnel {
		copyTags(n, personal, personnelTags)
		return
	}
	copyTags(n, s.first(tagPersonalAddr), contactTags)
}

// subItems groups every linked <rechnungpospos> by its link attribute
func (s *source) subItems() *multimap {
	m := newMultimap()
	for _, el := range s.all(tagSubItem) {
		link := el.SelectAttrValue(attrItemLink, "")
		if link == "" {
			continue
		}
		m.add(link, subItem(el))
	}
	return m
}

// multimap keeps sub-items per link in document order
type multimap struct {
	entries map[string][]*record.Node
}

func newMultimap() *multimap {
	return &multimap{entries: make(map[string][]*record.Node)}
}

func (m *multimap) add(key string, n *record.Node) {
	m.entries[key] = append(m.entries[key], n)
}

func (m *multimap) get(key string) []*record.Node {
	return m.entries[key]
}

// value returns the trimmed text of the first descendant of el called
// name. It is absent when el is nil, the descendant is missing or its
// text is empty.
func value(el *etree.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	found := el.FindElement(".//" + name)
	if found == nil {
		return "", false
	}
	text := textContent(found)
	if text == "" {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func setTag(n *record.Node, el *etree.Element, t tag) {
	if v, ok := value(el, t.Name); ok {
		n.Set(t.Key, t.Kind, &v)
	}
}

func copyTags(n *record.Node, el *etree.Element, tags []tag) {
	if el == nil {
		return
	}
	for _, t := range tags {
		setTag(n, el, t)
	}
}

// textContent concatenates every text node below el
func textContent(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(textContent(t))
		}
	}
	return sb.String()
}
