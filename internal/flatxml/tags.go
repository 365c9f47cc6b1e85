package flatxml

import "github.com/rezonia/einvoice-converter/internal/record"

// tag binds an ERP tag to an interchange key
type tag struct {
	Name string
	Key  string
	Kind record.Kind
}

func str(name, key string) tag { return tag{name, key, record.KindString} }
func num(name, key string) tag { return tag{name, key, record.KindNumber} }

// ERP element names
const (
	tagInvoice       = "rechnung"
	tagItem          = "rechnungpos"
	tagSubItem       = "rechnungpospos"
	tagStdText       = "stdtxt"
	tagTerms         = "zahlungsbed"
	tagTermsLang     = "zahlungsbedlng"
	tagTax           = "ust"
	tagFreight       = "frachtkosten"
	tagPersonal      = "personal"
	tagPersonalAddr  = "personalAdresse"
	attrItemLink     = "anp_db_pos"
	tagVATID         = "EGSTEUERNR"
	tagItemPosition  = "POSITION"
	tagItemSetNumber = "SETNR"
)

// party names the address, company and bank tags of one address block
type party struct {
	Address string
	Company string
	Bank    string
}

var (
	supplier        = party{"supplierAdresse", "supplierFirma", "supplierBank"}
	customer        = party{"customerAdresse", "customerFirma", "customerBank"}
	customerDeliver = party{"customerLAdresse", "customerLFirma", "customerLBank"}
	customerInvoice = party{"customerRAdresse", "customerRFirma", "customerRBank"}
)

var addressTags = []tag{
	str("ANP_GLN", "gln_id"),
	str("FIRMA1", "company_name_1"),
	str("FIRMA2", "company_name_2"),
	str("FIRMA3", "company_name_3"),
	str("LANDISO", "country_iso"),
	str("NAME", "name"),
	str("ABTEILUNG", "department"),
	str("ORT", "city"),
	str("PLZ", "postal_code"),
	str("PLZ2", "postal_code_2"),
	str("STRASSE", "street"),
	str("TELEFAX", "fax"),
	str("TELEFON", "phone"),
	str("EMAIL", "email"),
	str("DUNSNR", "duns_number"),
}

var companyTags = []tag{
	str("HANDELSREGISTER", "commercial_register"),
	str("GF1", "managing_director_1"),
	str("GF2", "managing_director_2"),
	str("STEUERNUMMER", "tax_number"),
	str("IBAN", "iban"),
	str("ZAHLARTEN", "payment_methods"),
}

var bankTags = []tag{
	str("SWIFT", "bic"),
}

var manualDeliveryTags = []tag{
	str("LFIRMA", "company_name_1"),
	str("LFIRMA2", "company_name_2"),
	str("LFIRMA3", "company_name_3"),
	str("LANDISO", "country_iso"),
	str("LNAME", "name"),
	str("LABTEILUNG", "department"),
	str("LORT", "city"),
	str("LPLZ", "postal_code"),
	str("LPLZ2", "postal_code_2"),
	str("LSTRASSE", "street"),
	str("LTELEFAX", "fax"),
	str("LTELEFON", "phone"),
	str("EMAIL", "email"),
	str("USTID", "vat_id"),
	str("DUNSNR", "duns_number"),
}

// personnelTags are read from <personal> when PERSONALDATA is PERSONAL
var personnelTags = []tag{
	str("ANP_EMAIL", "email"),
	str("ANP_TELDURCHWAHL", "phone"),
	str("ANP_FAXDURCHWAHL", "fax"),
	str("ABTEILUNG", "department"),
}

// contactTags are read from <personalAdresse> otherwise
var contactTags = []tag{
	str("EMAIL", "email"),
	str("TELEFON", "phone"),
	str("TELEFAX", "fax"),
	str("ABTEILUNG", "department"),
}

var invoiceTextTags = []tag{
	str("HTMLFREITEXT", "free_text"),
	str("HTMLIHRTEXT", "customer_text"),
	str("HTMLFUSSTEXT", "footer_text"),
	str("HTMLKOPFTEXT", "header_text"),
}

var eInvoiceTags = []tag{
	str("LEITWEGID", "route_id"),
	str("EINVOICE_DISPATCH", "dispatch_method"),
	str("EINVOICE_INTERFACE", "interface_type"),
}

// documentTags are read from <rechnung> into the record root
var documentTags = []tag{
	str("DATUM", "invoice_date"),
	str("LEISTUNGSDATUM", "service_date"),
	str("BESTELLDATUM", "order_date"),
	str("ANP_LIEFERTERMIN", "delivery_date"),
	str("RECHNUNG", "invoice_number"),
	str("ART", "invoice_type"),
	str("PARECHNUNGSART", "invoice_type_pa"),
	str("WAEHRUNG", "currency"),
	str("IHREBESTELLUNG", "customer_order_number"),
	str("URRECHNUNG", "original_invoice"),
	str("AUFTRAG", "order_number"),
	str("SPRACHE", "language"),
}

var amountTags = []tag{
	num("RABATTPREIS", "discount_amount"),
	num("NETTOERLOES", "net_amount"),
	num("USTPREIS", "tax_amount"),
	num("BRUTTO", "gross_amount"),
}

var taxTags = []tag{
	str("KATEGORIE", "tax_category"),
	num("BETRAG", "tax_amount"),
	num("UST", "tax_rate"),
	num("ERLOES", "tax_base"),
}

var freightTags = []tag{
	num("FRACHTKOSTENBETRAG", "amount"),
	str("FRACHTKOSTENUSTKATEGORIE", "tax_category"),
	num("FRACHTKOSTENUSTPROZENT", "tax_rate"),
}

var itemAmountTags = []tag{
	num("ERLOES", "revenue"),
	num("NETTOERLOES", "net_revenue"),
	num("PREIS", "gross"),
	num("NETTO", "net"),
	num("NETTOANTRAG", "net_application"),
	num("PACKMENGE", "package_quantity"),
	str("PREISME", "price_per_unit"),
	num("PREIS", "price"),
	num("MRABATT", "quantity_discount"),
	num("MRABATTPREIS", "quantity_discount_amount"),
	num("RABATT", "discount"),
	num("RABATT2", "discount2"),
	num("RABATTPREIS", "discount_amount"),
	num("RABATTPREIS2", "discount_amount2"),
	num("STKERLOES", "unit_revenue"),
}

var itemTaxTags = []tag{
	num("USTPREIS", "tax_amount"),
	str("USTKATEGORIE", "tax_category"),
	num("UST", "tax_rate"),
}

var masterDataTags = []tag{
	str("CHARGE", "batch"),
	str("URSPRUNGSLANDISO", "country_of_origin"),
	str("ZOLLTARIFNR", "customs_tariff_number"),
	str("EANCODE", "ean_code"),
	str("ARTIKEL", "article_number"),
	str("KARTIKEL", "customer_article_number"),
}

var referenceTags = []tag{
	str("URRECHNUNG", "original_invoice"),
	str("URRECHNUNGPOS", "original_invoice_position"),
	str("AUFTRAG", "order"),
	str("AUFTRAGPOS", "order_position"),
	str("LIEFERSCHEIN", "delivery_note"),
}

var flagTags = []tag{
	str("TEXTPOS", "text_position"),
	str("KAPITELSUMME", "chapter_sum"),
	str("ZWISCHENSUMME", "subtotal"),
	str("ZSBIS", "subtotal_to"),
	str("ZSVON", "subtotal_from"),
	str("PAKET", "package"),
}

var itemTags = []tag{
	str("DATUM", "date"),
	str("DONTPRINT", "dont_print"),
	str("DONTPRINTPRICE", "dont_print_price"),
	str("POSDRUCKEN", "print_position"),
	str("INVENTAR", "inventory"),
	str("ISSTUELI", "is_bom"),
	str("LEISTUNGSDATUM", "service_date"),
	num("MENGE", "quantity"),
	str("POSITION", "position"),
	str("VKME", "unit"),
	str("MTZART", "material_cost_type"),
	num("MTZSUM", "material_cost_amount"),
}

var subItemTags = []tag{
	str("DATUM", "date"),
	str("DONTCALC", "dont_calculate"),
	str("DONTPRINT", "dont_print"),
	str("DONTPRINTPRICE", "dont_print_price"),
	num("MENGE", "quantity"),
	str("SUBPOS", "sub_position"),
	str("VKME", "unit"),
}
