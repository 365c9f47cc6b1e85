package schema

import "github.com/rezonia/einvoice-converter/internal/model"

// Section and list names of the interchange vocabulary
const (
	Root                  = "invoice"
	SellerAddress         = "seller_address"
	SellerBank            = "seller_bank"
	BuyerAddress          = "buyer_address"
	BuyerBank             = "buyer_bank"
	DeliveryAddress       = "delivery_address"
	ManualDeliveryAddress = "manual_delivery_address"
	InvoiceAddress        = "invoice_address"
	Processor             = "processor"
	ProcessorAddress      = "address"
	Texts                 = "texts"
	PaymentTerms          = "payment_terms"
	AdditionalData        = "additional_data"
	EInvoice              = "e_invoice"
	Amounts               = "amounts"
	Tax                   = "tax"
	ShippingCosts         = "shipping_costs"
	Metadata              = "metadata"
	InvoiceItems          = "invoice_items"
	SubItems              = "sub_items"
	MasterData            = "master_data"
	TextData              = "text_data"
	References            = "references"
	SpecialFlags          = "special_flags"

	InvoiceDate = "invoice_date"
	ServiceDate = "service_date"

	// VATIDAlias is read when vat_id is absent or empty
	VATIDAlias = "eg_steuer_nr"
)

// AddressFields maps every address block
var AddressFields = []Field[model.Address]{
	{"gln_id", func(a *model.Address) any { return &a.GLNID }},
	{"company_name_1", func(a *model.Address) any { return &a.CompanyName1 }},
	{"company_name_2", func(a *model.Address) any { return &a.CompanyName2 }},
	{"company_name_3", func(a *model.Address) any { return &a.CompanyName3 }},
	{"country_iso", func(a *model.Address) any { return &a.CountryISO }},
	{"name", func(a *model.Address) any { return &a.Name }},
	{"department", func(a *model.Address) any { return &a.Department }},
	{"city", func(a *model.Address) any { return &a.City }},
	{"postal_code", func(a *model.Address) any { return &a.PostalCode }},
	{"postal_code_2", func(a *model.Address) any { return &a.PostalCode2 }},
	{"street", func(a *model.Address) any { return &a.Street }},
	{"fax", func(a *model.Address) any { return &a.Fax }},
	{"phone", func(a *model.Address) any { return &a.Phone }},
	{"email", func(a *model.Address) any { return &a.Email }},
	{"duns_number", func(a *model.Address) any { return &a.DUNSNumber }},
	{"vat_id", func(a *model.Address) any { return &a.VATID }},
	{"commercial_register", func(a *model.Address) any { return &a.CommercialRegister }},
	{"managing_director_1", func(a *model.Address) any { return &a.ManagingDirector1 }},
	{"managing_director_2", func(a *model.Address) any { return &a.ManagingDirector2 }},
	{"tax_number", func(a *model.Address) any { return &a.TaxNumber }},
	{"bic", func(a *model.Address) any { return &a.BIC }},
	{"iban", func(a *model.Address) any { return &a.IBAN }},
	{"payment_methods", func(a *model.Address) any { return &a.PaymentMethods }},
}

// BankFields is the subset of an address that a <role>_bank section overrides
var BankFields = []Field[model.Address]{
	{"bic", func(a *model.Address) any { return &a.BIC }},
	{"iban", func(a *model.Address) any { return &a.IBAN }},
	{"payment_methods", func(a *model.Address) any { return &a.PaymentMethods }},
}

// PersonFields maps the processor block
var PersonFields = []Field[model.Person]{
	{"name", func(p *model.Person) any { return &p.Name }},
	{"email", func(p *model.Person) any { return &p.Email }},
	{"phone", func(p *model.Person) any { return &p.Phone }},
	{"fax", func(p *model.Person) any { return &p.Fax }},
	{"department", func(p *model.Person) any { return &p.Department }},
}

// TextFields maps the five free texts
var TextFields = []Field[model.Texts]{
	{"standard_text", func(t *model.Texts) any { return &t.Standard }},
	{"free_text", func(t *model.Texts) any { return &t.Free }},
	{"customer_text", func(t *model.Texts) any { return &t.Customer }},
	{"footer_text", func(t *model.Texts) any { return &t.Footer }},
	{"header_text", func(t *model.Texts) any { return &t.Header }},
}

// PaymentTermsFields maps the payment terms block
var PaymentTermsFields = []Field[model.PaymentTerms]{
	{"payment_terms_text", func(p *model.PaymentTerms) any { return &p.Text }},
	{"value_date", func(p *model.PaymentTerms) any { return &p.ValueDate }},
}

// EInvoiceFields maps the routing block
var EInvoiceFields = []Field[model.EInvoiceData]{
	{"route_id", func(e *model.EInvoiceData) any { return &e.RouteID }},
	{"dispatch_method", func(e *model.EInvoiceData) any { return &e.DispatchMethod }},
	{"interface_type", func(e *model.EInvoiceData) any { return &e.InterfaceType }},
}

// MetadataFields maps document scalars held at the root of the record
var MetadataFields = []Field[model.Metadata]{
	{"invoice_number", func(m *model.Metadata) any { return &m.InvoiceNumber }},
	{"invoice_type", func(m *model.Metadata) any { return &m.InvoiceType }},
	{"invoice_type_pa", func(m *model.Metadata) any { return &m.InvoiceTypeLabel }},
	{"currency", func(m *model.Metadata) any { return &m.Currency }},
	{"customer_order_number", func(m *model.Metadata) any { return &m.CustomerOrderNumber }},
	{"order_date", func(m *model.Metadata) any { return &m.OrderDate }},
	{"original_invoice", func(m *model.Metadata) any { return &m.OriginalInvoice }},
	{"order_number", func(m *model.Metadata) any { return &m.OrderNumber }},
	{"language", func(m *model.Metadata) any { return &m.Language }},
	{"delivery_date", func(m *model.Metadata) any { return &m.DeliveryDate }},
}

// AmountsFields maps the invoice totals
var AmountsFields = []Field[model.Amounts]{
	{"discount_amount", func(a *model.Amounts) any { return &a.DiscountAmount }},
	{"net_amount", func(a *model.Amounts) any { return &a.NetAmount }},
	{"tax_amount", func(a *model.Amounts) any { return &a.TaxAmount }},
	{"gross_amount", func(a *model.Amounts) any { return &a.GrossAmount }},
}

// TaxFields maps the invoice tax summary
var TaxFields = []Field[model.Tax]{
	{"tax_category", func(t *model.Tax) any { return &t.Category }},
	{"tax_amount", func(t *model.Tax) any { return &t.Amount }},
	{"tax_rate", func(t *model.Tax) any { return &t.Rate }},
	{"tax_base", func(t *model.Tax) any { return &t.Base }},
}

// ShippingFields maps freight costs
var ShippingFields = []Field[model.ShippingCosts]{
	{"amount", func(s *model.ShippingCosts) any { return &s.Amount }},
	{"tax_category", func(s *model.ShippingCosts) any { return &s.TaxCategory }},
	{"tax_rate", func(s *model.ShippingCosts) any { return &s.TaxRate }},
}

// ItemAmountsFields maps line amounts of items and sub-items
var ItemAmountsFields = []Field[model.ItemAmounts]{
	{"revenue", func(a *model.ItemAmounts) any { return &a.Revenue }},
	{"net_revenue", func(a *model.ItemAmounts) any { return &a.NetRevenue }},
	{"gross", func(a *model.ItemAmounts) any { return &a.Gross }},
	{"net", func(a *model.ItemAmounts) any { return &a.Net }},
	{"net_application", func(a *model.ItemAmounts) any { return &a.NetApplication }},
	{"package_quantity", func(a *model.ItemAmounts) any { return &a.PackageQuantity }},
	{"price_per_unit", func(a *model.ItemAmounts) any { return &a.PricePerUnit }},
	{"price", func(a *model.ItemAmounts) any { return &a.Price }},
	{"quantity_discount", func(a *model.ItemAmounts) any { return &a.QuantityDiscount }},
	{"quantity_discount_amount", func(a *model.ItemAmounts) any { return &a.QuantityDiscountAmount }},
	{"discount", func(a *model.ItemAmounts) any { return &a.Discount }},
	{"discount2", func(a *model.ItemAmounts) any { return &a.Discount2 }},
	{"discount_amount", func(a *model.ItemAmounts) any { return &a.DiscountAmount }},
	{"discount_amount2", func(a *model.ItemAmounts) any { return &a.DiscountAmount2 }},
	{"unit_revenue", func(a *model.ItemAmounts) any { return &a.UnitRevenue }},
}

// ItemTaxFields maps the tax nested under line amounts
var ItemTaxFields = []Field[model.ItemTax]{
	{"tax_amount", func(t *model.ItemTax) any { return &t.Amount }},
	{"tax_category", func(t *model.ItemTax) any { return &t.Category }},
	{"tax_rate", func(t *model.ItemTax) any { return &t.Rate }},
}

// MasterDataFields maps article data
var MasterDataFields = []Field[model.ItemMasterData]{
	{"batch", func(m *model.ItemMasterData) any { return &m.Batch }},
	{"country_of_origin", func(m *model.ItemMasterData) any { return &m.CountryOfOrigin }},
	{"customs_tariff_number", func(m *model.ItemMasterData) any { return &m.CustomsTariffNumber }},
	{"ean_code", func(m *model.ItemMasterData) any { return &m.EANCode }},
	{"article_number", func(m *model.ItemMasterData) any { return &m.ArticleNumber }},
	{"customer_article_number", func(m *model.ItemMasterData) any { return &m.CustomerArticleNumber }},
}

// ItemTextFields maps line texts
var ItemTextFields = []Field[model.ItemText]{
	{"quantity_text", func(t *model.ItemText) any { return &t.QuantityText }},
	{"name", func(t *model.ItemText) any { return &t.Name }},
	{"text", func(t *model.ItemText) any { return &t.Text }},
}

// SubItemTextFields maps sub-line texts
var SubItemTextFields = []Field[model.ItemText]{
	{"name", func(t *model.ItemText) any { return &t.Name }},
	{"text", func(t *model.ItemText) any { return &t.Text }},
}

// ReferencesFields maps document references of a line
var ReferencesFields = []Field[model.ItemReferences]{
	{"original_invoice", func(r *model.ItemReferences) any { return &r.OriginalInvoice }},
	{"original_invoice_position", func(r *model.ItemReferences) any { return &r.OriginalInvoicePosition }},
	{"order", func(r *model.ItemReferences) any { return &r.Order }},
	{"order_position", func(r *model.ItemReferences) any { return &r.OrderPosition }},
	{"delivery_note", func(r *model.ItemReferences) any { return &r.DeliveryNote }},
}

// SpecialFlagsFields maps position markers
var SpecialFlagsFields = []Field[model.ItemSpecialFlags]{
	{"text_position", func(f *model.ItemSpecialFlags) any { return &f.TextPosition }},
	{"chapter_sum", func(f *model.ItemSpecialFlags) any { return &f.ChapterSum }},
	{"subtotal", func(f *model.ItemSpecialFlags) any { return &f.Subtotal }},
	{"subtotal_to", func(f *model.ItemSpecialFlags) any { return &f.SubtotalTo }},
	{"subtotal_from", func(f *model.ItemSpecialFlags) any { return &f.SubtotalFrom }},
	{"package", func(f *model.ItemSpecialFlags) any { return &f.Package }},
	{"is_package_price", func(f *model.ItemSpecialFlags) any { return &f.IsPackagePrice }},
}

// ItemFields maps line scalars
var ItemFields = []Field[model.Item]{
	{"date", func(i *model.Item) any { return &i.Date }},
	{"dont_print", func(i *model.Item) any { return &i.DontPrint }},
	{"dont_print_price", func(i *model.Item) any { return &i.DontPrintPrice }},
	{"print_position", func(i *model.Item) any { return &i.PrintPosition }},
	{"inventory", func(i *model.Item) any { return &i.Inventory }},
	{"is_bom", func(i *model.Item) any { return &i.IsBOM }},
	{"service_date", func(i *model.Item) any { return &i.ServiceDate }},
	{"quantity", func(i *model.Item) any { return &i.Quantity }},
	{"position", func(i *model.Item) any { return &i.Position }},
	{"unit", func(i *model.Item) any { return &i.Unit }},
	{"material_cost_type", func(i *model.Item) any { return &i.MaterialCostType }},
	{"material_cost_amount", func(i *model.Item) any { return &i.MaterialCostAmount }},
}

// SubItemFields maps sub-line scalars
var SubItemFields = []Field[model.SubItem]{
	{"date", func(s *model.SubItem) any { return &s.Date }},
	{"dont_calculate", func(s *model.SubItem) any { return &s.DontCalculate }},
	{"dont_print", func(s *model.SubItem) any { return &s.DontPrint }},
	{"dont_print_price", func(s *model.SubItem) any { return &s.DontPrintPrice }},
	{"quantity", func(s *model.SubItem) any { return &s.Quantity }},
	{"position", func(s *model.SubItem) any { return &s.Position }},
	{"sub_position", func(s *model.SubItem) any { return &s.SubPosition }},
	{"unit", func(s *model.SubItem) any { return &s.Unit }},
}
