package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/inbound"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/processor"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about invoice files",
	Long: `Display information about invoice files without converting them.

Shows:
  - Detected format (erp-xml, cii, intermediate-xml, json, pdf)
  - Invoice number, item count and interface type where readable
  - Profile and totals of e-invoices

Examples:
  einvoice-converter info rechnung.xml
  einvoice-converter info exports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	for _, file := range files {
		printFileInfo(cmd.Context(), file)
		fmt.Println()
	}

	return nil
}

func printFileInfo(ctx context.Context, filePath string) {
	fmt.Printf("File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	format := processor.DetectFormat(data)
	fmt.Printf("  Format: %s\n", format)

	switch format {
	case processor.FormatCII:
		imported, err := einvoice.ImportBytes(data)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			return
		}
		profile := imported.Profile.Name
		if profile == "" {
			profile = "unknown"
		}
		fmt.Printf("  Profile: %s\n", profile)
		fmt.Printf("  Invoice: %s\n", imported.Invoice.Number)
		fmt.Printf("  Items: %d\n", len(imported.Invoice.Items))
		fmt.Printf("  Grand total: %s %s\n", imported.Totals.GrandTotal.StringFixed(2), imported.Invoice.Currency)

	case processor.FormatERP, processor.FormatIntermediateXML, processor.FormatJSON:
		inv, err := inbound.NewRegistry().Read(ctx, data, nil)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			return
		}
		fmt.Printf("  Invoice: %s\n", model.Deref(inv.Metadata.InvoiceNumber))
		fmt.Printf("  Items: %d\n", len(inv.Items))
		if model.HasText(inv.EInvoice.InterfaceType) {
			fmt.Printf("  Interface: %s\n", *inv.EInvoice.InterfaceType)
		}
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("file not found: %s", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isSupportedFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", match, err)
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".json", ".pdf":
		return true
	}
	return false
}
