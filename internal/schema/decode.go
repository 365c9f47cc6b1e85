package schema

import (
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
)

// Decode reads the record rooted at n into inv. Values already in inv are
// overwritten only by keys present in n. Processor contact data is taken
// from the processor section as is; address fallback is left to the caller.
func Decode(n *record.Node, inv *model.Invoice) {
	inv.SellerAddress = DecodeAddress(n, SellerAddress, SellerBank)
	inv.CustomerAddress = DecodeAddress(n, BuyerAddress, BuyerBank)
	inv.DeliveryAddress = DecodeAddress(n, DeliveryAddress, "")
	inv.ManualDeliveryAddress = DecodeAddress(n, ManualDeliveryAddress, "")
	inv.InvoiceAddress = DecodeAddress(n, InvoiceAddress, "")

	DecodeFields(n.Child(Processor), &inv.Processor, PersonFields)
	DecodeFields(n.Child(Texts), &inv.Texts, TextFields)

	terms := n.Child(PaymentTerms)
	DecodeFields(terms, &inv.PaymentTerms, PaymentTermsFields)
	if inv.PaymentTerms.AdditionalData == nil {
		inv.PaymentTerms.AdditionalData = model.NewAdditionalData()
	}
	DecodeAdditional(terms.Child(AdditionalData), inv.PaymentTerms.AdditionalData)

	DecodeFields(n.Child(EInvoice), &inv.EInvoice, EInvoiceFields)

	if inv.Metadata.AdditionalData == nil {
		inv.Metadata.AdditionalData = model.NewAdditionalData()
	}
	if v, ok := n.Text(InvoiceDate); ok {
		inv.Metadata.AdditionalData.Set(model.KeyInvoiceDate, v)
	}
	if v, ok := n.Text(ServiceDate); ok {
		inv.Metadata.AdditionalData.Set(model.KeyServiceDate, v)
	}
	DecodeFields(n, &inv.Metadata, MetadataFields)
	DecodeAdditional(n.Child(Metadata), inv.Metadata.AdditionalData)

	DecodeFields(n.Child(Amounts), &inv.Amounts, AmountsFields)
	DecodeFields(n.Child(Tax), &inv.Tax, TaxFields)
	DecodeFields(n.Child(ShippingCosts), &inv.ShippingCosts, ShippingFields)

	for _, item := range n.Child(InvoiceItems).Items() {
		inv.AddItem(DecodeItem(item))
	}
}

// DecodeAddress reads the address section called name from root. The
// eg_steuer_nr alias fills vat_id when that is missing or empty, and a
// bank section, when given and present, overrides bic, iban and
// payment_methods.
func DecodeAddress(root *record.Node, name, bank string) model.Address {
	var a model.Address
	n := root.Child(name)
	DecodeFields(n, &a, AddressFields)
	if !model.HasText(a.VATID) {
		if v, ok := n.Text(VATIDAlias); ok && v != "" {
			a.VATID = &v
		}
	}
	if bank != "" {
		DecodeFields(root.Child(bank), &a, BankFields)
	}
	return a
}

// DecodeAdditional copies every leaf of n into data with upper-cased keys
func DecodeAdditional(n *record.Node, data *model.AdditionalData) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if c.IsLeaf() {
			data.Set(model.UpperKey(c.Name), c.Value)
		}
	}
}

// DecodeItem reads one item section including its sub-items
func DecodeItem(n *record.Node) *model.Item {
	item := model.NewItem()
	decodeAmounts(n.Child(Amounts), &item.Amounts)
	DecodeFields(n.Child(MasterData), &item.MasterData, MasterDataFields)
	DecodeFields(n.Child(TextData), &item.Text, ItemTextFields)
	DecodeFields(n.Child(References), &item.References, ReferencesFields)
	DecodeFields(n.Child(SpecialFlags), &item.SpecialFlags, SpecialFlagsFields)
	DecodeFields(n, item, ItemFields)

	for _, s := range n.Child(SubItems).Items() {
		item.SubItems = append(item.SubItems, DecodeSubItem(s))
	}
	return item
}

// DecodeSubItem reads one sub-item section. Name and text are taken from
// text_data and otherwise from the sub-item itself.
func DecodeSubItem(n *record.Node) *model.SubItem {
	sub := &model.SubItem{}
	decodeAmounts(n.Child(Amounts), &sub.Amounts)
	DecodeFields(n.Child(MasterData), &sub.MasterData, MasterDataFields)
	if td := n.Child(TextData); td != nil {
		DecodeFields(td, &sub.Text, SubItemTextFields)
	} else {
		DecodeFields(n, &sub.Text, SubItemTextFields)
	}
	DecodeFields(n, sub, SubItemFields)
	return sub
}

func decodeAmounts(n *record.Node, a *model.ItemAmounts) {
	if n == nil {
		return
	}
	DecodeFields(n, a, ItemAmountsFields)
	DecodeFields(n.Child(Tax), &a.Tax, ItemTaxFields)
}
