package schema_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso date", "2024-03-15", "2024-03-15"},
		{"millis", "2024-03-15T10:11:12.123", "2024-03-15"},
		{"seconds", "2024-03-15T10:11:12", "2024-03-15"},
		{"dotted with time", "15.03.2024 08:00:00", "2024-03-15"},
		{"dotted", "15.03.2024", "2024-03-15"},
		{"offset suffix", "2024-03-15T10:11:12+01:00", "2024-03-15"},
		{"garbage", "soon", ""},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schema.ParseDate(tt.input)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(schema.DateLayout))
		})
	}
}

func TestParseDate_DropsTimeOfDay(t *testing.T) {
	for _, input := range []string{"2024-02-20T10:30:00.000", "20.02.2024 10:30:00", "2024-02-20T10:30:00+01:00"} {
		t.Run(input, func(t *testing.T) {
			got := schema.ParseDate(input)
			require.NotNil(t, got)
			assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), *got)
		})
	}
}

func TestDecode_TimestampDateSurvivesReencoding(t *testing.T) {
	root := record.NewSection(schema.Root)
	root.SetString("order_date", model.String("2024-02-20T10:30:00.000"))

	first := model.NewInvoice()
	schema.Decode(root, first)
	require.NotNil(t, first.Metadata.OrderDate)

	second := model.NewInvoice()
	schema.Decode(schema.Encode(first), second)
	require.NotNil(t, second.Metadata.OrderDate)
	assert.Equal(t, *first.Metadata.OrderDate, *second.Metadata.OrderDate)
}

func TestDecodeAdditional(t *testing.T) {
	n := record.NewSection(schema.Metadata)
	n.SetString("source_system", model.String("erp"))
	n.SetString("Straße", model.String("x"))
	n.Add(record.NewSection("nested"))

	data := model.NewAdditionalData()
	schema.DecodeAdditional(n, data)

	assert.Equal(t, []string{"SOURCE_SYSTEM", "STRASSE"}, data.Keys())
	assert.Equal(t, "erp", data.Value("SOURCE_SYSTEM"))
}

func TestParseBool(t *testing.T) {
	assert.True(t, schema.ParseBool("true"))
	assert.True(t, schema.ParseBool(" YES "))
	assert.True(t, schema.ParseBool("1"))
	assert.False(t, schema.ParseBool("0"))
	assert.False(t, schema.ParseBool(""))
	assert.False(t, schema.ParseBool("nein"))
}

func TestDecodeFields_ValuePolicy(t *testing.T) {
	n := record.NewSection(record.ItemName)
	n.SetString("quantity", model.String("abc"))
	n.SetString("position", model.String(""))
	n.SetString("date", model.String("not a date"))
	n.SetString("dont_print", model.String("1"))

	item := model.NewItem()
	schema.DecodeFields(n, item, schema.ItemFields)

	require.NotNil(t, item.Quantity)
	assert.True(t, item.Quantity.IsZero(), "unparseable number becomes zero")
	require.NotNil(t, item.Position)
	assert.Equal(t, "", *item.Position, "empty string stays present")
	assert.Nil(t, item.Date)
	require.NotNil(t, item.DontPrint)
	assert.True(t, *item.DontPrint)
	assert.Nil(t, item.Unit, "missing key stays absent")
}

func TestDecodeAddress(t *testing.T) {
	root := record.NewSection(schema.Root)
	seller := root.Add(record.NewSection(schema.SellerAddress))
	seller.SetString("company_name_1", model.String("ACME GmbH"))
	seller.SetString("vat_id", model.String(""))
	seller.SetString("eg_steuer_nr", model.String("DE123"))
	seller.SetString("iban", model.String("DE00 OLD"))
	bank := root.Add(record.NewSection(schema.SellerBank))
	bank.SetString("iban", model.String("DE89370400440532013000"))
	bank.SetString("bic", model.String("COBADEFFXXX"))

	a := schema.DecodeAddress(root, schema.SellerAddress, schema.SellerBank)
	assert.Equal(t, "ACME GmbH", model.Deref(a.CompanyName1))
	assert.Equal(t, "DE123", model.Deref(a.VATID))
	assert.Equal(t, "DE89370400440532013000", model.Deref(a.IBAN))
	assert.Equal(t, "COBADEFFXXX", model.Deref(a.BIC))

	missing := schema.DecodeAddress(root, schema.InvoiceAddress, "")
	assert.True(t, missing.IsEmpty())
}

func TestDecodeSubItem_FlatTextFallback(t *testing.T) {
	n := record.NewSection(record.SubItemName)
	n.SetString("name", model.String("Screw"))
	n.SetString("text", model.String("M4"))

	sub := schema.DecodeSubItem(n)
	assert.Equal(t, "Screw", model.Deref(sub.Text.Name))
	assert.Equal(t, "M4", model.Deref(sub.Text.Text))
}

func TestEncode(t *testing.T) {
	inv := model.NewInvoice()
	inv.SellerAddress.CompanyName1 = model.String("ACME GmbH")
	inv.Metadata.InvoiceNumber = model.String("R-1")
	inv.Metadata.OrderDate = model.Date(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	inv.Metadata.AdditionalData.Set(model.KeyInvoiceDate, "2024-03-15")
	inv.Metadata.AdditionalData.Set("CUSTOM", "x")
	inv.PaymentTerms.AdditionalData.Set("PROZENTSKONTO1", "2")

	item := model.NewItem()
	item.Quantity = model.Decimal(decimal.NewFromInt(3))
	item.Amounts.Tax.Rate = model.Decimal(decimal.NewFromInt(19))
	inv.AddItem(item)

	root := schema.Encode(inv)

	assert.Equal(t, schema.Root, root.Name)
	v, ok := root.Lookup(schema.SellerAddress).Text("company_name_1")
	assert.True(t, ok)
	assert.Equal(t, "ACME GmbH", v)
	assert.Nil(t, root.Child(schema.BuyerAddress), "empty sections are dropped")

	v, _ = root.Text(schema.InvoiceDate)
	assert.Equal(t, "2024-03-15", v)
	v, _ = root.Text("order_date")
	assert.Equal(t, "2024-02-01", v)
	_, ok = root.Lookup(schema.Metadata).Text(model.KeyInvoiceDate)
	assert.False(t, ok, "invoice date is written at the root only")
	v, _ = root.Lookup(schema.Metadata).Text("CUSTOM")
	assert.Equal(t, "x", v)
	v, _ = root.Lookup(schema.PaymentTerms, schema.AdditionalData).Text("PROZENTSKONTO1")
	assert.Equal(t, "2", v)

	items := root.Child(schema.InvoiceItems)
	require.NotNil(t, items)
	require.Len(t, items.Items(), 1)
	it := items.Items()[0]
	assert.Equal(t, record.ItemName, it.Name)
	q := it.Last("quantity")
	require.NotNil(t, q)
	assert.Equal(t, record.KindNumber, q.Kind)
	v, _ = it.Lookup(schema.Amounts, schema.Tax).Text("tax_rate")
	assert.Equal(t, "19", v)

	subs := it.Child(schema.SubItems)
	require.NotNil(t, subs, "sub-item list is kept even when empty")
	assert.Empty(t, subs.Items())
}

func TestEncodeDecodeItem(t *testing.T) {
	item := model.NewItem()
	item.Amounts.Net = model.Decimal(decimal.RequireFromString("12.50"))
	item.Amounts.PricePerUnit = model.String("100")
	item.MasterData.ArticleNumber = model.String("A-1")
	item.Text.QuantityText = model.String("3 Stk")
	item.SpecialFlags.IsPackagePrice = model.Bool(true)
	item.IsBOM = model.Bool(false)
	item.SubItems = append(item.SubItems, &model.SubItem{
		Position:    model.String("7"),
		SubPosition: model.String("1"),
		Text:        model.ItemText{Name: model.String("Part")},
	})

	got := schema.DecodeItem(schema.EncodeItem(item))

	assert.True(t, got.Amounts.Net.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "100", model.Deref(got.Amounts.PricePerUnit))
	assert.Equal(t, "A-1", model.Deref(got.MasterData.ArticleNumber))
	assert.Equal(t, "3 Stk", model.Deref(got.Text.QuantityText))
	require.NotNil(t, got.SpecialFlags.IsPackagePrice)
	assert.True(t, *got.SpecialFlags.IsPackagePrice)
	require.NotNil(t, got.IsBOM)
	assert.False(t, *got.IsBOM)
	require.Len(t, got.SubItems, 1)
	assert.Equal(t, "7", model.Deref(got.SubItems[0].Position))
	assert.Equal(t, "Part", model.Deref(got.SubItems[0].Text.Name))
}

func TestKeys(t *testing.T) {
	keys := schema.Keys(schema.TextFields)
	assert.Equal(t, []string{"standard_text", "free_text", "customer_text", "footer_text", "header_text"}, keys)
}

func TestDecode_EncodedInvoice(t *testing.T) {
	inv := model.NewInvoice()
	inv.SellerAddress.CompanyName1 = model.String("ACME GmbH")
	inv.Processor.Email = model.String("clerk@acme.example")
	inv.Texts.Footer = model.String("Thank you")
	inv.EInvoice.RouteID = model.String("04011000-1234512345-35")
	inv.Metadata.Currency = model.String("EUR")
	inv.Metadata.AdditionalData.Set(model.KeyServiceDate, "2024-03-01")
	inv.PaymentTerms.Text = model.String("30 days net")
	inv.PaymentTerms.AdditionalData.Set(model.KeyNetDate, "2024-04-14")
	inv.Tax.Rate = model.Decimal(decimal.NewFromInt(19))
	inv.AddItem(model.NewItem())

	got := model.NewInvoice()
	schema.Decode(schema.Encode(inv), got)

	assert.Equal(t, "ACME GmbH", model.Deref(got.SellerAddress.CompanyName1))
	assert.Equal(t, "clerk@acme.example", model.Deref(got.Processor.Email))
	assert.Equal(t, "Thank you", model.Deref(got.Texts.Footer))
	assert.Equal(t, "04011000-1234512345-35", model.Deref(got.EInvoice.RouteID))
	assert.Equal(t, "EUR", model.Deref(got.Metadata.Currency))
	assert.Equal(t, "2024-03-01", got.Metadata.AdditionalData.Value(model.KeyServiceDate))
	assert.Equal(t, "30 days net", model.Deref(got.PaymentTerms.Text))
	assert.Equal(t, "2024-04-14", got.PaymentTerms.AdditionalData.Value(model.KeyNetDate))
	assert.True(t, got.Tax.Rate.Equal(decimal.NewFromInt(19)))
	assert.Len(t, got.Items, 1)
	assert.NotNil(t, got.Items[0].SubItems)
}
