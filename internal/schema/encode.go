package schema

import (
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
)

// Encode renders inv as an interchange record rooted at "invoice". Empty
// sections are dropped; the item and sub-item lists are always present.
func Encode(inv *model.Invoice) *record.Node {
	root := record.NewSection(Root)

	encodeAddress(root, SellerAddress, &inv.SellerAddress)
	encodeAddress(root, BuyerAddress, &inv.CustomerAddress)
	encodeAddress(root, DeliveryAddress, &inv.DeliveryAddress)
	encodeAddress(root, ManualDeliveryAddress, &inv.ManualDeliveryAddress)
	encodeAddress(root, InvoiceAddress, &inv.InvoiceAddress)

	EncodeFields(root.Add(record.NewSection(Processor)), &inv.Processor, PersonFields)
	EncodeFields(root.Add(record.NewSection(Texts)), &inv.Texts, TextFields)

	terms := root.Add(record.NewSection(PaymentTerms))
	EncodeFields(terms, &inv.PaymentTerms, PaymentTermsFields)
	encodeAdditional(terms.Add(record.NewSection(AdditionalData)), inv.PaymentTerms.AdditionalData)

	EncodeFields(root.Add(record.NewSection(EInvoice)), &inv.EInvoice, EInvoiceFields)

	extra := inv.Metadata.AdditionalData
	if v, ok := extra.Get(model.KeyInvoiceDate); ok {
		root.SetString(InvoiceDate, &v)
	}
	if v, ok := extra.Get(model.KeyServiceDate); ok {
		root.SetString(ServiceDate, &v)
	}
	EncodeFields(root, &inv.Metadata, MetadataFields)

	meta := root.Add(record.NewSection(Metadata))
	extra.Each(func(k, v string) {
		if k == model.KeyInvoiceDate || k == model.KeyServiceDate {
			return
		}
		meta.SetString(k, &v)
	})

	EncodeFields(root.Add(record.NewSection(Amounts)), &inv.Amounts, AmountsFields)
	EncodeFields(root.Add(record.NewSection(Tax)), &inv.Tax, TaxFields)
	EncodeFields(root.Add(record.NewSection(ShippingCosts)), &inv.ShippingCosts, ShippingFields)

	items := root.Add(record.NewList(InvoiceItems))
	for _, item := range inv.Items {
		items.Add(EncodeItem(item))
	}

	root.Prune(true)
	return root
}

// EncodeItem renders one line with its sub-lines
func EncodeItem(item *model.Item) *record.Node {
	n := record.NewSection(record.ItemName)
	encodeAmounts(n, &item.Amounts)
	EncodeFields(n.Add(record.NewSection(MasterData)), &item.MasterData, MasterDataFields)
	EncodeFields(n.Add(record.NewSection(TextData)), &item.Text, ItemTextFields)
	EncodeFields(n.Add(record.NewSection(References)), &item.References, ReferencesFields)
	EncodeFields(n.Add(record.NewSection(SpecialFlags)), &item.SpecialFlags, SpecialFlagsFields)
	EncodeFields(n, item, ItemFields)

	subs := n.Add(record.NewList(SubItems))
	for _, sub := range item.SubItems {
		s := record.NewSection(record.SubItemName)
		encodeAmounts(s, &sub.Amounts)
		EncodeFields(s.Add(record.NewSection(MasterData)), &sub.MasterData, MasterDataFields)
		EncodeFields(s.Add(record.NewSection(TextData)), &sub.Text, SubItemTextFields)
		EncodeFields(s, sub, SubItemFields)
		subs.Add(s)
	}
	return n
}

func encodeAddress(root *record.Node, name string, a *model.Address) {
	EncodeFields(root.Add(record.NewSection(name)), a, AddressFields)
}

func encodeAmounts(n *record.Node, a *model.ItemAmounts) {
	s := n.Add(record.NewSection(Amounts))
	EncodeFields(s, a, ItemAmountsFields)
	EncodeFields(s.Add(record.NewSection(Tax)), &a.Tax, ItemTaxFields)
}

func encodeAdditional(n *record.Node, data *model.AdditionalData) {
	data.Each(func(k, v string) {
		n.SetString(k, &v)
	})
}
