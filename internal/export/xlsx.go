package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

// Sheet names of the workbook
const (
	SheetInvoice = "Invoice"
	SheetItems   = "Items"
)

type xlsxExporter struct{}

func (xlsxExporter) Format() Format { return FormatXLSX }
func (xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (xlsxExporter) Extension() string { return ".xlsx" }

func (e xlsxExporter) Export(inv *model.Invoice) ([]byte, error) {
	return e.ExportRecord(schema.Encode(inv))
}

// ExportRecord writes the document sections as section/key/value rows on
// the Invoice sheet and one row per item and sub-item on the Items sheet.
func (xlsxExporter) ExportRecord(rec *record.Node) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInvoice); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeInvoiceSheet(f, rec); err != nil {
		return nil, err
	}
	if err := writeItemsSheet(f, rec); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInvoiceSheet(f *excelize.File, rec *record.Node) error {
	rows := [][]any{{"Section", "Key", "Value"}}
	for _, c := range rec.Children {
		switch {
		case c.IsLeaf():
			rows = append(rows, []any{"", c.Name, cellValue(c)})
		case c.Kind == record.KindSection:
			flatten(c, "", func(key string, leaf *record.Node) {
				rows = append(rows, []any{c.Name, key, cellValue(leaf)})
			})
		}
	}
	if err := writeRows(f, SheetInvoice, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetInvoice, "A", "C", 28)
}

// itemRow is one line of the Items sheet
type itemRow struct {
	position, sub string
	values        map[string]any
}

func writeItemsSheet(f *excelize.File, rec *record.Node) error {
	var (
		columns []string
		seen    = map[string]bool{}
		lines   []itemRow
	)
	collect := func(n *record.Node, position, sub string) {
		row := itemRow{position: position, sub: sub, values: map[string]any{}}
		flatten(n, "", func(key string, leaf *record.Node) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
			row.values[key] = cellValue(leaf)
		})
		lines = append(lines, row)
	}

	for _, list := range rec.Children {
		if list.Kind != record.KindList {
			continue
		}
		for i, item := range list.Items() {
			position := strconv.Itoa(i + 1)
			collect(item, position, "")
			for _, sublist := range item.Children {
				if sublist.Kind != record.KindList {
					continue
				}
				for j, sub := range sublist.Items() {
					collect(sub, position, strconv.Itoa(j+1))
				}
			}
		}
	}

	header := []any{"item", "sub_item"}
	for _, c := range columns {
		header = append(header, c)
	}
	rows := [][]any{header}
	for _, l := range lines {
		row := []any{l.position, l.sub}
		for _, c := range columns {
			row = append(row, l.values[c])
		}
		rows = append(rows, row)
	}
	return writeRows(f, SheetItems, rows)
}

// flatten visits every leaf below n with its dotted path; nested lists are
// left to the caller
func flatten(n *record.Node, prefix string, visit func(key string, leaf *record.Node)) {
	for _, c := range n.Children {
		key := c.Name
		if prefix != "" {
			key = prefix + "." + c.Name
		}
		switch {
		case c.IsLeaf():
			visit(key, c)
		case c.Kind == record.KindSection:
			flatten(c, key, visit)
		}
	}
}

func cellValue(leaf *record.Node) any {
	if leaf.Kind == record.KindNumber {
		if v, err := strconv.ParseFloat(strings.TrimSpace(leaf.Value), 64); err == nil {
			return v
		}
	}
	return leaf.Value
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
