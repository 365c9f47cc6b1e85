package processor_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/inbound"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/processor"
)

func readFixture(t testing.TB) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "rechnung.xml"))
	require.NoError(t, err)
	return data
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	result := p.Convert(ctx, readFixture(t), nil)
	require.NoError(t, result.Error)
	assert.Equal(t, "EXTENDED", result.Profile)
	assert.Equal(t, "application/xml", result.ContentType)
	assert.Empty(t, result.DebugFile)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "RE-2024-0001", model.Deref(result.Invoice.Metadata.InvoiceNumber))

	imported, err := einvoice.ImportBytes(result.Output)
	require.NoError(t, err)
	assert.Equal(t, einvoice.ProfileExtended, imported.Profile)
	assert.Equal(t, "RE-2024-0001", imported.Invoice.Number)
	assert.Len(t, imported.Invoice.Items, 2)
}

func TestConvert_TimestampDates(t *testing.T) {
	raw := readFixture(t)
	raw = bytes.ReplaceAll(raw, []byte("<DATUM>2024-03-15</DATUM>"), []byte("<DATUM>2024-03-15T00:00:00.000</DATUM>"))
	raw = bytes.ReplaceAll(raw, []byte("<LEISTUNGSDATUM>2024-03-10</LEISTUNGSDATUM>"), []byte("<LEISTUNGSDATUM>2024-03-10T00:00:00.000</LEISTUNGSDATUM>"))

	result := processor.NewPipeline().Convert(context.Background(), raw, nil)
	require.NoError(t, result.Error)

	imported, err := einvoice.ImportBytes(result.Output)
	require.NoError(t, err)
	require.NotNil(t, imported.Invoice.IssueDate)
	assert.Equal(t, "2024-03-15", imported.Invoice.IssueDate.Format("2006-01-02"))
	require.NotNil(t, imported.Invoice.DeliveryDate)
	assert.Equal(t, "2024-03-10", imported.Invoice.DeliveryDate.Format("2006-01-02"))
}

func TestConvert_Interface(t *testing.T) {
	tests := []struct {
		name     string
		keys     model.ConversionKeys
		fallback string
		want     string
	}{
		{"document value", nil, "", "EXTENDED"},
		{"key override", model.NewConversionKeys(map[string]string{"interface": "X"}), "", "XRECHNUNG"},
		{"document wins over configured default", nil, "X", "EXTENDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := processor.NewPipeline(processor.WithDefaultInterface(tt.fallback))
			result := p.Convert(context.Background(), readFixture(t), tt.keys)
			require.NoError(t, result.Error)
			assert.Equal(t, tt.want, result.Profile)
		})
	}
}

func TestConvert_UnknownInterface(t *testing.T) {
	keys := model.NewConversionKeys(map[string]string{"INTERFACE": "Q"})
	result := processor.NewPipeline().Convert(context.Background(), readFixture(t), keys)
	require.Error(t, result.Error)
	assert.True(t, errors.Is(result.Error, model.ErrUnknownInterface))
	assert.Nil(t, result.Output)
}

func TestConvert_InvalidXML(t *testing.T) {
	result := processor.NewPipeline().Convert(context.Background(), []byte("not xml"), nil)
	require.Error(t, result.Error)
	assert.True(t, errors.Is(result.Error, model.ErrMalformedInput))
	assert.Contains(t, result.Error.Error(), "ERP extraction failed")
}

func TestConvert_DebugDir(t *testing.T) {
	dir := t.TempDir()
	p := processor.NewPipeline(processor.WithDebugDir(dir))

	result := p.Convert(context.Background(), readFixture(t), nil)
	require.NoError(t, result.Error)
	require.NotEmpty(t, result.DebugFile)
	assert.Equal(t, dir, filepath.Dir(result.DebugFile))
	assert.Equal(t, ".xml", filepath.Ext(result.DebugFile))

	data, err := os.ReadFile(result.DebugFile)
	require.NoError(t, err)
	back, err := inbound.FromXML(context.Background(), data, nil)
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-0001", model.Deref(back.Metadata.InvoiceNumber))
	assert.Len(t, back.Items, 2)
}

func TestConvertTo_DebugPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "copy.xml")

	result := processor.NewPipeline().ConvertTo(context.Background(), readFixture(t), nil, path)
	require.NoError(t, result.Error)
	assert.Equal(t, path, result.DebugFile)
	assert.FileExists(t, path)
}

func TestConvertTo_DebugWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	result := processor.NewPipeline().ConvertTo(context.Background(), readFixture(t), nil, filepath.Join(blocker, "copy.xml"))
	require.NoError(t, result.Error, "a failed debug copy does not fail the conversion")
	assert.Empty(t, result.DebugFile)
	require.Len(t, result.Warnings, 1)
	assert.NotEmpty(t, result.Output)
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()

	converted := p.Convert(ctx, readFixture(t), model.NewConversionKeys(map[string]string{"INTERFACE": "X"}))
	require.NoError(t, converted.Error)

	result := p.Normalize(ctx, converted.Output, "json")
	require.NoError(t, result.Error)
	assert.Equal(t, "XRECHNUNG", result.Profile)
	assert.Equal(t, "application/json", result.ContentType)

	back, err := inbound.FromJSON(ctx, result.Output, nil)
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-0001", model.Deref(back.Metadata.InvoiceNumber))
	assert.Equal(t, "X", model.Deref(back.EInvoice.InterfaceType))
	assert.Len(t, back.Items, 2)
}

func TestNormalize_Errors(t *testing.T) {
	p := processor.NewPipeline()

	tests := []struct {
		name   string
		data   []byte
		format string
		target error
	}{
		{"unsupported format", []byte("<x/>"), "csv", model.ErrUnsupportedFormat},
		{"not an e-invoice", []byte("<invoice/>"), "xml", model.ErrMalformedInput},
		{"not xml", []byte("garbage"), "xml", model.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Normalize(context.Background(), tt.data, tt.format)
			require.Error(t, result.Error)
			assert.True(t, errors.Is(result.Error, tt.target))
		})
	}
}

func TestIntermediate(t *testing.T) {
	ctx := context.Background()
	p := processor.NewPipeline()
	raw := readFixture(t)

	detected := p.Intermediate(ctx, raw, "", nil, "xml")
	require.NoError(t, detected.Error)

	explicit := p.Intermediate(ctx, raw, "erp", nil, "xml")
	require.NoError(t, explicit.Error)
	assert.Equal(t, string(explicit.Output), string(detected.Output))

	asJSON := p.Intermediate(ctx, raw, "erp-xml", nil, "json")
	require.NoError(t, asJSON.Error)

	fromJSON := p.Intermediate(ctx, asJSON.Output, "", nil, "xml")
	require.NoError(t, fromJSON.Error)
	assert.Equal(t, string(detected.Output), string(fromJSON.Output))

	sheet := p.Intermediate(ctx, raw, "", nil, "xlsx")
	require.NoError(t, sheet.Error)
	assert.Equal(t, ".xlsx", sheet.Extension)
}

func TestIntermediate_Errors(t *testing.T) {
	p := processor.NewPipeline()

	result := p.Intermediate(context.Background(), readFixture(t), "", nil, "pdf")
	assert.True(t, errors.Is(result.Error, model.ErrUnsupportedFormat))

	result = p.Intermediate(context.Background(), readFixture(t), "yaml", nil, "xml")
	require.Error(t, result.Error)

	result = p.Intermediate(context.Background(), []byte("plain text"), "", nil, "xml")
	assert.True(t, errors.Is(result.Error, model.ErrMalformedInput))
}

func TestExtract(t *testing.T) {
	result := processor.NewPipeline().Extract(context.Background(), readFixture(t), nil, "json")
	require.NoError(t, result.Error)
	assert.Equal(t, ".json", result.Extension)
	assert.Contains(t, string(result.Output), `"invoice_number"`)
	assert.Nil(t, result.Invoice)
}

func TestDetectFormat(t *testing.T) {
	p := processor.NewPipeline()
	converted := p.Convert(context.Background(), readFixture(t), nil)
	require.NoError(t, converted.Error)
	intermediate := p.Intermediate(context.Background(), readFixture(t), "", nil, "xml")
	require.NoError(t, intermediate.Error)

	tests := []struct {
		name     string
		data     []byte
		expected processor.Format
	}{
		{"ERP export", readFixture(t), processor.FormatERP},
		{"CII", converted.Output, processor.FormatCII},
		{"intermediate XML", intermediate.Output, processor.FormatIntermediateXML},
		{"JSON", []byte(`  {"invoice_number": "1"}`), processor.FormatJSON},
		{"PDF", []byte("%PDF-1.7\n%some content"), processor.FormatPDF},
		{"foreign XML", []byte(`<?xml version="1.0"?><order/>`), processor.FormatUnknown},
		{"plain text", []byte("some random text"), processor.FormatUnknown},
		{"empty", []byte{}, processor.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processor.DetectFormat(tt.data))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "erp-xml", processor.FormatERP.String())
	assert.Equal(t, "cii", processor.FormatCII.String())
	assert.Equal(t, "unknown", processor.FormatUnknown.String())
}

func BenchmarkDetectFormat(b *testing.B) {
	data := readFixture(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.DetectFormat(data)
	}
}

func BenchmarkConvert(b *testing.B) {
	ctx := context.Background()
	p := processor.NewPipeline()
	data := readFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Convert(ctx, data, nil)
	}
}
