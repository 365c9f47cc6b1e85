// Package attach builds hybrid e-invoices by embedding the generated XML
// into a PDF rendition of the invoice.
package attach

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/logger"
)

// Attachment file names required by the hybrid formats
const (
	FacturXName   = "factur-x.xml"
	XRechnungName = "xrechnung.xml"
)

// FileName returns the attachment name for a profile
func FileName(profile einvoice.Profile) string {
	if profile.Name == einvoice.ProfileXRechnung.Name {
		return XRechnungName
	}
	return FacturXName
}

// Embed copies pdfIn to pdfOut with xml attached under the profile's
// attachment name. pdfOut may equal pdfIn.
func Embed(pdfIn, pdfOut string, xml []byte, profile einvoice.Profile) error {
	if len(xml) == 0 {
		return fmt.Errorf("no e-invoice XML to embed")
	}

	dir, err := os.MkdirTemp("", "einvoice-attach-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	staged := filepath.Join(dir, FileName(profile))
	if err := os.WriteFile(staged, xml, 0o644); err != nil {
		return fmt.Errorf("failed to stage attachment: %w", err)
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	if err := api.AddAttachmentsFile(pdfIn, pdfOut, []string{staged}, false, conf); err != nil {
		return fmt.Errorf("failed to attach e-invoice to %s: %w", pdfIn, err)
	}

	log := logger.WithComponent("attach")
	log.Info().
		Str("pdf", pdfOut).
		Str("attachment", FileName(profile)).
		Int("size", len(xml)).
		Msg("e-invoice embedded")
	return nil
}
