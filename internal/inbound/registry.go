package inbound

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rezonia/einvoice-converter/internal/flatxml"
	"github.com/rezonia/einvoice-converter/internal/model"
)

// Format names an inbound vocabulary
type Format string

const (
	FormatERP  Format = "erp"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat reads a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatERP, FormatXML, FormatJSON:
		return f, nil
	case "erp-xml":
		return FormatERP, nil
	}
	return "", fmt.Errorf("unknown input format %q", s)
}

// Source reads one inbound vocabulary into the intermediate invoice
type Source interface {
	// Read maps raw content to an invoice
	Read(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error)

	// CanParse returns true if the source can handle this content
	CanParse(content []byte) bool

	// Format returns the vocabulary handled
	Format() Format
}

// Registry holds all registered sources
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry with every built-in source.
// Order matters: the ERP export is checked before the generic XML vocabulary.
func NewRegistry() *Registry {
	return &Registry{
		sources: []Source{
			erpSource{extractor: flatxml.NewExtractor()},
			xmlSource{},
			jsonSource{},
		},
	}
}

// Detect identifies the source for content
func (r *Registry) Detect(content []byte) (Source, error) {
	for _, s := range r.sources {
		if s.CanParse(content) {
			return s, nil
		}
	}
	return nil, model.NewParseError(model.SourceXML, "root", "unknown input format, no matching source found", nil)
}

// Read maps content with the detected source
func (r *Registry) Read(ctx context.Context, content []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	s, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, content, keys)
}

// Register adds a custom source with priority over the built-in ones
func (r *Registry) Register(s Source) {
	r.sources = append([]Source{s}, r.sources...)
}

// Get returns the source for a format, or nil
func (r *Registry) Get(format Format) Source {
	for _, s := range r.sources {
		if s.Format() == format {
			return s
		}
	}
	return nil
}

type erpSource struct {
	extractor *flatxml.Extractor
}

func (s erpSource) Read(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	return FromERP(ctx, raw, keys)
}

func (s erpSource) CanParse(content []byte) bool { return s.extractor.CanParse(content) }
func (erpSource) Format() Format                 { return FormatERP }

type xmlSource struct{}

func (xmlSource) Read(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	return FromXML(ctx, raw, keys)
}

func (xmlSource) CanParse(content []byte) bool {
	return bytes.Contains(content, []byte("<invoice>")) || bytes.Contains(content, []byte("<invoice "))
}

func (xmlSource) Format() Format { return FormatXML }

type jsonSource struct{}

func (jsonSource) Read(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	return FromJSON(ctx, raw, keys)
}

func (jsonSource) CanParse(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func (jsonSource) Format() Format { return FormatJSON }
