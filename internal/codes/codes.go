// Package codes holds the lookup tables between ERP vocabulary and
// e-invoice code lists: sales units and document types.
package codes

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed codes.yaml
var embedded []byte

// UnitPair is one row of a unit table
type UnitPair struct {
	Unit string `yaml:"unit"`
	Code string `yaml:"code"`
}

// UnitTable maps ERP units to unit codes and back
type UnitTable struct {
	Default        string     `yaml:"default"`
	Forward        []UnitPair `yaml:"forward"`
	ReverseDefault string     `yaml:"reverse_default"`
	Reverse        []UnitPair `yaml:"reverse"`
}

// DocumentTable maps ERP document types to document codes and back
type DocumentTable struct {
	Default        string            `yaml:"default"`
	Forward        map[string]string `yaml:"forward"`
	ReverseDefault string            `yaml:"reverse_default"`
	Reverse        map[string]string `yaml:"reverse"`
}

// Tables bundles every lookup table
type Tables struct {
	Units     UnitTable     `yaml:"units"`
	Documents DocumentTable `yaml:"documents"`

	forward map[string]string
	reverse map[string]string
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded tables
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded code tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load reads tables from a YAML file. An empty path yields the embedded tables.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read code tables: %w", err)
	}
	return Parse(data)
}

// Parse decodes tables from YAML
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse code tables: %w", err)
	}
	if t.Units.Default == "" || t.Documents.Default == "" {
		return nil, fmt.Errorf("code tables need unit and document defaults")
	}
	t.forward = make(map[string]string, len(t.Units.Forward))
	for _, p := range t.Units.Forward {
		t.forward[p.Unit] = p.Code
	}
	t.reverse = make(map[string]string, len(t.Units.Reverse))
	for _, p := range t.Units.Reverse {
		t.reverse[p.Code] = p.Unit
	}
	return &t, nil
}

// UnitCode returns the unit code for an ERP unit. Unknown or empty units
// map to the default code.
func (t *Tables) UnitCode(unit string) string {
	if code, ok := t.forward[unit]; ok {
		return code
	}
	return t.Units.Default
}

// ERPUnit returns the ERP unit for a unit code, or the reverse default
func (t *Tables) ERPUnit(code string) string {
	if unit, ok := t.reverse[code]; ok {
		return unit
	}
	return t.Units.ReverseDefault
}

// DocumentCode classifies an ERP document type. A nil or unknown type
// yields the default code.
func (t *Tables) DocumentCode(kind *string) string {
	if kind == nil {
		return t.Documents.Default
	}
	if code, ok := t.Documents.Forward[*kind]; ok {
		return code
	}
	return t.Documents.Default
}

// DocumentType returns the ERP document type for a document code
func (t *Tables) DocumentType(code string) string {
	if kind, ok := t.Documents.Reverse[code]; ok {
		return kind
	}
	return t.Documents.ReverseDefault
}
