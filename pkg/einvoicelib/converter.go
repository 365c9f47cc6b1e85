package einvoicelib

import (
	"context"
	"fmt"
	"io"

	"github.com/rezonia/einvoice-converter/internal/attach"
	"github.com/rezonia/einvoice-converter/internal/codes"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/outbound"
	"github.com/rezonia/einvoice-converter/internal/processor"
)

// ConversionResult is an e-invoice produced from an ERP export
type ConversionResult struct {
	XML      []byte
	Profile  string
	Invoice  *Invoice
	Warnings []string
}

// ExportResult is an intermediate invoice in an interchange format
type ExportResult struct {
	Data        []byte
	ContentType string
	Extension   string
	Invoice     *Invoice
	Warnings    []string
}

// Options configures a Converter
type Options struct {
	// DefaultInterface applies when neither the keys nor the document
	// name an interface (Z or X)
	DefaultInterface string
	// DebugDir receives the intermediate XML of every conversion
	DebugDir string
	// CodeTablesFile replaces the embedded unit and document tables
	CodeTablesFile string
}

// DefaultOptions returns default converter options
func DefaultOptions() Options {
	return Options{DefaultInterface: "Z"}
}

// Converter runs conversions through the internal pipeline
type Converter struct {
	pipeline *processor.Pipeline
}

// NewConverter creates a converter with the given options
func NewConverter(opts Options) (*Converter, error) {
	tables := codes.Default()
	if opts.CodeTablesFile != "" {
		var err error
		if tables, err = codes.Load(opts.CodeTablesFile); err != nil {
			return nil, fmt.Errorf("failed to load code tables: %w", err)
		}
	}
	if opts.DefaultInterface != "" {
		if _, err := outbound.ProfileFor(opts.DefaultInterface); err != nil {
			return nil, err
		}
	}

	return &Converter{
		pipeline: processor.NewPipeline(
			processor.WithTables(tables),
			processor.WithDefaultInterface(opts.DefaultInterface),
			processor.WithDebugDir(opts.DebugDir),
		),
	}, nil
}

// NewDefaultConverter creates a converter with default options
func NewDefaultConverter() *Converter {
	c, err := NewConverter(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return c
}

// Convert reads an ERP export and returns the e-invoice XML
func (c *Converter) Convert(ctx context.Context, r io.Reader, keys ConversionKeys) (*ConversionResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.SourceERPXML, "root", "failed to read input", err)
	}

	result := c.pipeline.Convert(ctx, data, keys)
	if result.Error != nil {
		return nil, result.Error
	}
	return &ConversionResult{
		XML:      result.Output,
		Profile:  result.Profile,
		Invoice:  result.Invoice,
		Warnings: result.Warnings,
	}, nil
}

// ConvertToPDF converts an ERP export and embeds the e-invoice into a copy
// of pdfIn written to pdfOut
func (c *Converter) ConvertToPDF(ctx context.Context, r io.Reader, keys ConversionKeys, pdfIn, pdfOut string) (*ConversionResult, error) {
	res, err := c.Convert(ctx, r, keys)
	if err != nil {
		return nil, err
	}
	profile, err := einvoice.ProfileByName(res.Profile)
	if err != nil {
		return nil, err
	}
	if err := attach.Embed(pdfIn, pdfOut, res.XML, profile); err != nil {
		return nil, err
	}
	return res, nil
}

// Normalize reads e-invoice XML back into the intermediate invoice and
// exports it in format (xml, json or xlsx)
func (c *Converter) Normalize(ctx context.Context, r io.Reader, format string) (*ExportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.SourceEInvoice, "root", "failed to read input", err)
	}
	return exportResult(c.pipeline.Normalize(ctx, data, format))
}

// Export reads an ERP export or interchange document, detected from the
// content, and exports the intermediate invoice in format
func (c *Converter) Export(ctx context.Context, r io.Reader, keys ConversionKeys, format string) (*ExportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.SourceXML, "root", "failed to read input", err)
	}
	return exportResult(c.pipeline.Intermediate(ctx, data, "", keys, format))
}

// ConvertBatch converts multiple exports concurrently. Results keep the
// input order; a failed input leaves a nil result.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []io.Reader, keys ConversionKeys) ([]*ConversionResult, error) {
	results := make([]*ConversionResult, len(inputs))
	errCh := make(chan error, len(inputs))

	for i, input := range inputs {
		go func(idx int, r io.Reader) {
			result, err := c.Convert(ctx, r, keys)
			if err != nil {
				errCh <- fmt.Errorf("input %d: %w", idx, err)
				return
			}
			results[idx] = result
			errCh <- nil
		}(i, input)
	}

	var firstErr error
	for range inputs {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// Detect names the format of a document: erp-xml, cii, intermediate-xml,
// json, pdf or unknown
func Detect(data []byte) string {
	return processor.DetectFormat(data).String()
}

func exportResult(result *processor.Result) (*ExportResult, error) {
	if result.Error != nil {
		return nil, result.Error
	}
	return &ExportResult{
		Data:        result.Output,
		ContentType: result.ContentType,
		Extension:   result.Extension,
		Invoice:     result.Invoice,
		Warnings:    result.Warnings,
	}, nil
}
