// Package export serializes the intermediate invoice for interchange and
// debugging. Absent values never appear in the output.
package export

import (
	"strings"

	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

// Format names an export format
type Format string

const (
	FormatXML  Format = "XML"
	FormatJSON Format = "JSON"
	FormatXLSX Format = "XLSX"
)

// ParseFormat reads a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToUpper(strings.TrimSpace(s))); f {
	case FormatXML, FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", model.NewExportFormatError(s)
}

// Exporter writes an invoice in one format
type Exporter interface {
	// Export serializes an intermediate invoice
	Export(inv *model.Invoice) ([]byte, error)

	// ExportRecord serializes an interchange record as is
	ExportRecord(rec *record.Node) ([]byte, error)

	// Format returns the format written
	Format() Format

	// ContentType returns the media type of the output
	ContentType() string

	// Extension returns the file extension including the dot
	Extension() string
}

// New returns the exporter for a format name
func New(format string) (Exporter, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return jsonExporter{}, nil
	case FormatXLSX:
		return xlsxExporter{}, nil
	default:
		return xmlExporter{}, nil
	}
}

type xmlExporter struct{}

func (xmlExporter) Export(inv *model.Invoice) ([]byte, error) {
	return schema.Encode(inv).XML()
}

func (xmlExporter) ExportRecord(rec *record.Node) ([]byte, error) { return rec.XML() }
func (xmlExporter) Format() Format                                { return FormatXML }
func (xmlExporter) ContentType() string                           { return "application/xml" }
func (xmlExporter) Extension() string                             { return ".xml" }

type jsonExporter struct{}

func (jsonExporter) Export(inv *model.Invoice) ([]byte, error) {
	return schema.Encode(inv).JSON()
}

func (jsonExporter) ExportRecord(rec *record.Node) ([]byte, error) { return rec.JSON() }
func (jsonExporter) Format() Format                                { return FormatJSON }
func (jsonExporter) ContentType() string                           { return "application/json" }
func (jsonExporter) Extension() string                             { return ".json" }
