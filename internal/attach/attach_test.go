package attach_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/attach"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
)

// onePagePDF writes a blank single page document with a valid xref table
func onePagePDF(t *testing.T, path string) {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "factur-x.xml", attach.FileName(einvoice.ProfileExtended))
	assert.Equal(t, "xrechnung.xml", attach.FileName(einvoice.ProfileXRechnung))
	assert.Equal(t, "factur-x.xml", attach.FileName(einvoice.ProfileEN16931))
}

func TestEmbed(t *testing.T) {
	tests := []struct {
		profile einvoice.Profile
		name    string
	}{
		{einvoice.ProfileExtended, attach.FacturXName},
		{einvoice.ProfileXRechnung, attach.XRechnungName},
	}

	for _, tt := range tests {
		t.Run(tt.profile.Name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "invoice.pdf")
			out := filepath.Join(dir, "hybrid.pdf")
			onePagePDF(t, in)

			xml := []byte(`<?xml version="1.0"?><rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"/>`)
			require.NoError(t, attach.Embed(in, out, xml, tt.profile))

			extracted := filepath.Join(dir, "extracted")
			require.NoError(t, os.Mkdir(extracted, 0o755))
			require.NoError(t, api.ExtractAttachmentsFile(out, extracted, nil, nil))

			got, err := os.ReadFile(filepath.Join(extracted, tt.name))
			require.NoError(t, err)
			assert.Equal(t, xml, got)
		})
	}
}

func TestEmbed_Errors(t *testing.T) {
	dir := t.TempDir()

	err := attach.Embed(filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.pdf"), []byte("<x/>"), einvoice.ProfileExtended)
	require.Error(t, err)

	in := filepath.Join(dir, "invoice.pdf")
	onePagePDF(t, in)
	err = attach.Embed(in, filepath.Join(dir, "out.pdf"), nil, einvoice.ProfileExtended)
	require.Error(t, err)
}
