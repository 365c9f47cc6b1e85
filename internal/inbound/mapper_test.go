package inbound_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/inbound"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

func loadJSON(t *testing.T, keys model.ConversionKeys) *model.Invoice {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "invoice.json"))
	require.NoError(t, err)
	inv, err := inbound.FromJSON(context.Background(), data, keys)
	require.NoError(t, err)
	return inv
}

func TestFromJSON_Addresses(t *testing.T) {
	inv := loadJSON(t, nil)

	seller := inv.SellerAddress
	assert.Equal(t, "Muster Maschinenbau GmbH", model.Deref(seller.CompanyName1))
	assert.Equal(t, "DE123456789", model.Deref(seller.VATID), "eg_steuer_nr fills vat_id")
	assert.Equal(t, "DE89370400440532013000", model.Deref(seller.IBAN))
	assert.Equal(t, "COBADEFFXXX", model.Deref(seller.BIC))

	assert.Equal(t, "Kunde AG", model.Deref(inv.DeliveryAddress.CompanyName1), "missing delivery address copies the customer")
	assert.Equal(t, "Kunde AG", model.Deref(inv.InvoiceAddress.CompanyName1), "all-empty invoice address copies the customer")
	assert.Equal(t, "DE987654321", model.Deref(inv.InvoiceAddress.VATID))

	require.NotNil(t, inv.DeliveryAddress.CompanyName1)
	assert.NotSame(t, inv.CustomerAddress.CompanyName1, inv.DeliveryAddress.CompanyName1, "fallback is a copy")
}

func TestFromJSON_Processor(t *testing.T) {
	tests := []struct {
		name       string
		keys       model.ConversionKeys
		email      string
		department string
	}{
		{"contact address", nil, "vertrieb@muster.example", "Vertrieb"},
		{"personnel", model.NewConversionKeys(map[string]string{"PERSONALDATA": "Personal"}), "p.bearbeiter@muster.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := loadJSON(t, tt.keys)
			assert.Equal(t, "Petra Bearbeiter", model.Deref(inv.Processor.Name))
			assert.Equal(t, tt.email, model.Deref(inv.Processor.Email))
			assert.Equal(t, tt.department, model.Deref(inv.Processor.Department))
		})
	}
}

func TestFromJSON_Document(t *testing.T) {
	inv := loadJSON(t, nil)

	assert.Equal(t, "RE-2024-0001", model.Deref(inv.Metadata.InvoiceNumber))
	assert.Equal(t, "GU", model.Deref(inv.Metadata.InvoiceType))
	assert.Equal(t, "2024-03-15", inv.Metadata.AdditionalData.Value(model.KeyInvoiceDate))
	assert.Equal(t, "erp", inv.Metadata.AdditionalData.Value("SOURCE_SYSTEM"))
	require.NotNil(t, inv.Metadata.OrderDate)
	assert.Equal(t, "2024-02-20", inv.Metadata.OrderDate.Format(schema.DateLayout))

	assert.Equal(t, "X", model.Deref(inv.EInvoice.InterfaceType))
	assert.Equal(t, "Vielen Dank", model.Deref(inv.Texts.Footer))
	require.NotNil(t, inv.PaymentTerms.ValueDate)
	assert.Equal(t, "3", inv.PaymentTerms.AdditionalData.Value("PROZENTSKONTO1"))

	assert.True(t, inv.Amounts.NetAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.Amounts.GrossAmount.Equal(decimal.NewFromInt(119)), "decimal comma is accepted")
	assert.Nil(t, inv.Amounts.TaxAmount)
}

func TestFromJSON_Items(t *testing.T) {
	inv := loadJSON(t, nil)
	require.Len(t, inv.Items, 2)

	first := inv.Items[0]
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, first.Amounts.PackageQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, first.Amounts.Tax.Rate.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, "Stück", model.Deref(first.Unit))
	require.NotNil(t, first.DontPrint)
	assert.True(t, *first.DontPrint)
	require.Len(t, first.SubItems, 1)
	assert.Equal(t, "Grundplatte", model.Deref(first.SubItems[0].Text.Name))
	assert.Equal(t, "1", model.Deref(first.SubItems[0].DontCalculate))

	second := inv.Items[1]
	require.NotNil(t, second.Quantity)
	assert.True(t, second.Quantity.IsZero(), "unparseable quantity becomes zero")
	assert.NotNil(t, second.SubItems)
	assert.Empty(t, second.SubItems)
}

func TestMap_ZBDetails(t *testing.T) {
	root := record.NewSection(schema.Root)
	terms := root.Add(record.NewSection(schema.PaymentTerms))
	extra := terms.Add(record.NewSection(schema.AdditionalData))
	extra.SetString("skontotage1", model.String("14"))

	keys := model.NewConversionKeys(map[string]string{
		"ZBDETAILS": `{"prozentskonto1": "2", "skontotage1": "10"}`,
	})
	inv := inbound.Map(root, keys)

	data := inv.PaymentTerms.AdditionalData
	assert.Equal(t, "2", data.Value("PROZENTSKONTO1"))
	assert.Equal(t, "14", data.Value("SKONTOTAGE1"), "record data wins over the fragment")
	assert.Equal(t, []string{"PROZENTSKONTO1", "SKONTOTAGE1"}, data.Keys())
}

func TestMap_BrokenZBDetailsIsSkipped(t *testing.T) {
	keys := model.NewConversionKeys(map[string]string{"ZBDETAILS": "<zb>"})
	inv := inbound.Map(record.NewSection(schema.Root), keys)
	assert.Equal(t, 0, inv.PaymentTerms.AdditionalData.Len())
}

func TestMap_EmptyRecord(t *testing.T) {
	inv := inbound.Map(record.NewSection(schema.Root), nil)

	assert.NotNil(t, inv.Items)
	assert.Empty(t, inv.Items)
	assert.True(t, inv.SellerAddress.IsEmpty())
	assert.True(t, inv.DeliveryAddress.IsEmpty())
	assert.NotNil(t, inv.Metadata.AdditionalData)
}

func TestFromJSON_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"invoice_number": `},
		{"array", `[1, 2]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inbound.FromJSON(context.Background(), []byte(tt.input), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrMalformedInput))
		})
	}
}

func TestFromXML_Malformed(t *testing.T) {
	_, err := inbound.FromXML(context.Background(), []byte("<invoice><seller_address>"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedInput))
}

func TestFromERP(t *testing.T) {
	raw := []byte(`<export>
  <supplierAdresse><FIRMA1>Muster GmbH</FIRMA1></supplierAdresse>
  <customerAdresse><FIRMA1>Kunde AG</FIRMA1></customerAdresse>
  <rechnung><RECHNUNG>R-1</RECHNUNG><DATUM>2024-03-15</DATUM></rechnung>
  <rechnungpos anp_db_pos="1"><NAME>Widget</NAME><MENGE>2</MENGE><NETTO>100</NETTO></rechnungpos>
</export>`)

	inv, err := inbound.FromERP(context.Background(), raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Muster GmbH", model.Deref(inv.SellerAddress.CompanyName1))
	assert.Equal(t, "Kunde AG", model.Deref(inv.InvoiceAddress.CompanyName1))
	assert.Equal(t, "R-1", model.Deref(inv.Metadata.InvoiceNumber))
	assert.Equal(t, "2024-03-15", inv.Metadata.AdditionalData.Value(model.KeyInvoiceDate))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget", model.Deref(inv.Items[0].Text.Name))
	assert.True(t, inv.Items[0].Amounts.Net.Equal(decimal.NewFromInt(100)))
}

func TestFromERP_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := inbound.FromERP(ctx, []byte("<export/>"), nil)
	require.ErrorIs(t, err, context.Canceled)
}
