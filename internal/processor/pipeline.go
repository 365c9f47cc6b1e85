// Package processor orchestrates the conversion flows: ERP export to
// e-invoice, e-invoice back to the intermediate invoice, and the
// intermediate interchange exports.
package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rezonia/einvoice-converter/internal/codes"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/export"
	"github.com/rezonia/einvoice-converter/internal/flatxml"
	"github.com/rezonia/einvoice-converter/internal/inbound"
	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/outbound"
	"github.com/rezonia/einvoice-converter/internal/reverse"
)

// Format represents a detected input format
type Format string

const (
	FormatERP             Format = "erp-xml"
	FormatCII             Format = "cii"
	FormatIntermediateXML Format = "intermediate-xml"
	FormatJSON            Format = "json"
	FormatPDF             Format = "pdf"
	FormatUnknown         Format = "unknown"
)

// String returns the string representation of the format
func (f Format) String() string {
	return string(f)
}

// Result holds the outcome of one pipeline call
type Result struct {
	// Invoice is the intermediate invoice the output was built from
	Invoice *model.Invoice
	Output  []byte
	// ContentType and Extension describe Output
	ContentType string
	Extension   string
	// Profile is set when Output is an e-invoice or was read from one
	Profile   string
	DebugFile string
	Warnings  []string
	Error     error
}

// Pipeline runs conversions. It holds no per-call state and is safe for
// concurrent use.
type Pipeline struct {
	tables           *codes.Tables
	defaultInterface string
	debugDir         string

	registry  *inbound.Registry
	extractor *flatxml.Extractor
	outbound  *outbound.Mapper
	reverse   *reverse.Mapper
	exporter  *einvoice.Exporter
	log       zerolog.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithTables sets the unit and document code tables
func WithTables(t *codes.Tables) PipelineOption {
	return func(p *Pipeline) {
		p.tables = t
	}
}

// WithDefaultInterface sets the interface used when neither the keys nor
// the document name one
func WithDefaultInterface(code string) PipelineOption {
	return func(p *Pipeline) {
		p.defaultInterface = code
	}
}

// WithDebugDir makes Convert write the intermediate XML of every
// conversion to dir/<uuid>.xml
func WithDebugDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.debugDir = dir
	}
}

// NewPipeline creates a new processing pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		registry:  inbound.NewRegistry(),
		extractor: flatxml.NewExtractor(),
		exporter:  einvoice.NewExporter(),
		log:       logger.WithComponent("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tables == nil {
		p.tables = codes.Default()
	}
	p.outbound = outbound.NewMapper(
		outbound.WithTables(p.tables),
		outbound.WithDefaultInterface(p.defaultInterface),
	)
	p.reverse = reverse.NewMapper(p.tables)
	return p
}

// Convert turns an ERP export into e-invoice XML. When a debug directory
// is configured the intermediate XML is written there as well.
func (p *Pipeline) Convert(ctx context.Context, raw []byte, keys model.ConversionKeys) *Result {
	return p.ConvertTo(ctx, raw, keys, "")
}

// ConvertTo is Convert with an explicit debug file path; an empty path
// falls back to the debug directory.
func (p *Pipeline) ConvertTo(ctx context.Context, raw []byte, keys model.ConversionKeys, debugPath string) *Result {
	result := &Result{ContentType: "application/xml", Extension: ".xml"}

	inv, err := inbound.FromERP(ctx, raw, keys)
	if err != nil {
		result.Error = fmt.Errorf("ERP extraction failed: %w", err)
		return result
	}
	result.Invoice = inv

	if debugPath == "" && p.debugDir != "" {
		debugPath = filepath.Join(p.debugDir, uuid.NewString()+".xml")
	}
	if debugPath != "" {
		if err := writeDebugCopy(debugPath, inv); err != nil {
			p.log.Warn().Err(err).Str("path", debugPath).Msg("debug copy not written")
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.DebugFile = debugPath
		}
	}

	out, profile, err := p.outbound.Map(inv, keys)
	if err != nil {
		result.Error = err
		return result
	}
	result.Profile = profile.Name

	data, err := p.exporter.ExportProfile(out, profile)
	if err != nil {
		result.Error = fmt.Errorf("e-invoice export failed: %w", err)
		return result
	}
	result.Output = data

	p.log.Info().
		Str("invoice", out.Number).
		Str("profile", profile.Name).
		Int("items", len(out.Items)).
		Msg("invoice converted")
	return result
}

// writeDebugCopy stores the intermediate XML; the file is closed before
// returning on every path
func writeDebugCopy(path string, inv *model.Invoice) (err error) {
	e, err := export.New(string(export.FormatXML))
	if err != nil {
		return err
	}
	data, err := e.Export(inv)
	if err != nil {
		return fmt.Errorf("failed to encode debug copy: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create debug directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create debug file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close debug file: %w", cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write debug file: %w", err)
	}
	return nil
}

// Normalize reads e-invoice XML back into the intermediate invoice and
// exports it. The interface type is taken from the document's profile.
func (p *Pipeline) Normalize(ctx context.Context, raw []byte, format string) *Result {
	result := &Result{}

	exp, err := export.New(format)
	if err != nil {
		result.Error = err
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	imported, err := einvoice.ImportBytes(raw)
	if err != nil {
		result.Error = fmt.Errorf("e-invoice import failed: %w", err)
		return result
	}
	result.Profile = imported.Profile.Name

	keys := model.ConversionKeys{}
	if code, ok := outbound.InterfaceFor(imported.Profile); ok {
		keys.Set(model.KeyInterface, code)
	} else {
		result.Warnings = append(result.Warnings, "document profile has no interface type")
	}

	inv := p.reverse.Map(imported.Invoice, keys)
	if stated := imported.Totals.GrandTotal; !stated.IsZero() && len(imported.Invoice.Items) > 0 {
		if diff := stated.Sub(einvoice.Calculate(imported.Invoice).GrandTotal); !diff.IsZero() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("stated grand total differs from line items by %s", diff.StringFixed(2)))
		}
	}

	return p.export(result, exp, inv)
}

// Intermediate reads an ERP export or an interchange document and exports
// the intermediate invoice. An empty input format is detected from the
// content.
func (p *Pipeline) Intermediate(ctx context.Context, raw []byte, inputFormat string, keys model.ConversionKeys, format string) *Result {
	result := &Result{}

	exp, err := export.New(format)
	if err != nil {
		result.Error = err
		return result
	}

	var inv *model.Invoice
	if inputFormat == "" {
		inv, err = p.registry.Read(ctx, raw, keys)
	} else {
		var f inbound.Format
		if f, err = inbound.ParseFormat(inputFormat); err == nil {
			inv, err = p.registry.Get(f).Read(ctx, raw, keys)
		}
	}
	if err != nil {
		result.Error = err
		return result
	}
	return p.export(result, exp, inv)
}

// Extract renders an ERP export as an interchange record without mapping
// it to the model
func (p *Pipeline) Extract(ctx context.Context, raw []byte, keys model.ConversionKeys, format string) *Result {
	result := &Result{}

	exp, err := export.New(format)
	if err != nil {
		result.Error = err
		return result
	}
	rec, err := p.extractor.ExtractBytes(ctx, raw, keys)
	if err != nil {
		result.Error = fmt.Errorf("ERP extraction failed: %w", err)
		return result
	}
	if result.Output, err = exp.ExportRecord(rec); err != nil {
		result.Error = err
		return result
	}
	result.ContentType = exp.ContentType()
	result.Extension = exp.Extension()
	return result
}

func (p *Pipeline) export(result *Result, exp export.Exporter, inv *model.Invoice) *Result {
	result.Invoice = inv
	data, err := exp.Export(inv)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", exp.Format(), err)
		return result
	}
	result.Output = data
	result.ContentType = exp.ContentType()
	result.Extension = exp.Extension()
	return result
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat detects the format of input data
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	switch {
	case bytes.HasPrefix(trimmed, []byte("%PDF")):
		return FormatPDF
	case trimmed[0] == '{':
		return FormatJSON
	case trimmed[0] != '<':
		return FormatUnknown
	case einvoice.IsCII(trimmed):
		return FormatCII
	}

	src, err := inbound.NewRegistry().Detect(trimmed)
	if err != nil {
		return FormatUnknown
	}
	switch src.Format() {
	case inbound.FormatERP:
		return FormatERP
	case inbound.FormatXML:
		return FormatIntermediateXML
	}
	return FormatUnknown
}
