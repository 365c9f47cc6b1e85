package codes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-converter/internal/codes"
)

func TestUnitCode(t *testing.T) {
	tables := codes.Default()

	tests := []struct {
		unit string
		want string
	}{
		{"kg", "KGM"},
		{"Stück", "C62"},
		{"100_Stk", "C62"},
		{"h", "HUR"},
		{"Pa", "PAL"},
		{"mmWS", "MMWS"},
		{"KG", "C62"},
		{"parsec", "C62"},
		{"", "C62"},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.UnitCode(tt.unit))
		})
	}
}

func TestERPUnit(t *testing.T) {
	tables := codes.Default()

	assert.Equal(t, "St", tables.ERPUnit("C62"))
	assert.Equal(t, "kg", tables.ERPUnit("KGM"))
	assert.Equal(t, "St", tables.ERPUnit("XYZ"))
}

func TestUnitRoundTrip(t *testing.T) {
	tables := codes.Default()

	for _, p := range tables.Units.Reverse {
		assert.Equal(t, p.Code, tables.UnitCode(tables.ERPUnit(p.Code)), "code %s", p.Code)
	}
}

func TestDocumentCode(t *testing.T) {
	tables := codes.Default()
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		kind *string
		want string
	}{
		{"invoice", str("RE"), "380"},
		{"final invoice", str("SV"), "380"},
		{"partial", str("TR"), "326"},
		{"instalment", str("AV"), "326"},
		{"partial final refund", str("TSG"), "326"},
		{"credit note", str("GU"), "381"},
		{"advance refund", str("AG"), "381"},
		{"unknown", str("ZZ"), "380"},
		{"lower case is unknown", str("gu"), "380"},
		{"nil", nil, "380"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.DocumentCode(tt.kind))
		})
	}
}

func TestDocumentType(t *testing.T) {
	tables := codes.Default()

	assert.Equal(t, "RE", tables.DocumentType("380"))
	assert.Equal(t, "TR", tables.DocumentType("326"))
	assert.Equal(t, "GU", tables.DocumentType("381"))
	assert.Equal(t, "RE", tables.DocumentType("384"))
	assert.Equal(t, "RE", tables.DocumentType("999"))
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses embedded tables", func(t *testing.T) {
		tables, err := codes.Load("")
		require.NoError(t, err)
		assert.Same(t, codes.Default(), tables)
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "codes.yaml")
		content := "units:\n  default: H87\n  forward:\n    - {unit: Stk, code: H87}\n" +
			"documents:\n  default: \"380\"\n  forward: {}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		tables, err := codes.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "H87", tables.UnitCode("Stk"))
		assert.Equal(t, "H87", tables.UnitCode("kg"))
	})

	t.Run("missing defaults", func(t *testing.T) {
		_, err := codes.Parse([]byte("units: {}\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := codes.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
