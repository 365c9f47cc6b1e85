package einvoicelib_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/pkg/einvoicelib"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "rechnung.xml"))
	require.NoError(t, err)
	return data
}

func TestNewConverter(t *testing.T) {
	conv, err := einvoicelib.NewConverter(einvoicelib.Options{})
	require.NoError(t, err)
	require.NotNil(t, conv)
}

func TestNewDefaultConverter(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()
	require.NotNil(t, conv)
	assert.Equal(t, "Z", einvoicelib.DefaultOptions().DefaultInterface)
}

func TestNewConverter_InvalidOptions(t *testing.T) {
	_, err := einvoicelib.NewConverter(einvoicelib.Options{DefaultInterface: "Q"})
	assert.True(t, errors.Is(err, einvoicelib.ErrUnknownInterface))

	_, err = einvoicelib.NewConverter(einvoicelib.Options{CodeTablesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestConverterConvert(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()

	res, err := conv.Convert(context.Background(), bytes.NewReader(readFixture(t)), nil)
	require.NoError(t, err)
	assert.Equal(t, einvoicelib.ProfileExtended.Name, res.Profile)
	assert.Contains(t, string(res.XML), "CrossIndustryInvoice")
	require.NotNil(t, res.Invoice)
	assert.Len(t, res.Invoice.Items, 2)

	keys := einvoicelib.NewConversionKeys(map[string]string{einvoicelib.KeyInterface: "X"})
	res, err = conv.Convert(context.Background(), bytes.NewReader(readFixture(t)), keys)
	require.NoError(t, err)
	assert.Equal(t, einvoicelib.ProfileXRechnung.Name, res.Profile)
}

func TestConverterConvert_Invalid(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()

	_, err := conv.Convert(context.Background(), strings.NewReader("not xml"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, einvoicelib.ErrMalformedInput))

	var pe *einvoicelib.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestConverterNormalize(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()
	ctx := context.Background()

	res, err := conv.Convert(ctx, bytes.NewReader(readFixture(t)), nil)
	require.NoError(t, err)

	out, err := conv.Normalize(ctx, bytes.NewReader(res.XML), "json")
	require.NoError(t, err)
	assert.Equal(t, ".json", out.Extension)
	assert.Contains(t, string(out.Data), "RE-2024-0001")

	_, err = conv.Normalize(ctx, bytes.NewReader(res.XML), "csv")
	assert.True(t, errors.Is(err, einvoicelib.ErrUnsupportedFormat))
}

func TestConverterExport(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()

	out, err := conv.Export(context.Background(), bytes.NewReader(readFixture(t)), nil, "xml")
	require.NoError(t, err)
	assert.Equal(t, "application/xml", out.ContentType)
	assert.Equal(t, "intermediate-xml", einvoicelib.Detect(out.Data))
}

func TestConverterConvertBatch(t *testing.T) {
	conv := einvoicelib.NewDefaultConverter()

	inputs := []io.Reader{
		bytes.NewReader(readFixture(t)),
		strings.NewReader("broken"),
		bytes.NewReader(readFixture(t)),
	}

	results, err := conv.ConvertBatch(context.Background(), inputs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input 1")
	require.Len(t, results, 3)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.NotNil(t, results[2])
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "erp-xml", einvoicelib.Detect(readFixture(t)))
	assert.Equal(t, "pdf", einvoicelib.Detect([]byte("%PDF-1.4")))
	assert.Equal(t, "unknown", einvoicelib.Detect(nil))
}
