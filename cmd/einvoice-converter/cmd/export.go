package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportInput  string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the intermediate invoice as XML, JSON or XLSX",
	Long: `Map an ERP export, or an interchange XML or JSON document, to the
intermediate invoice and export it. The input format is detected from the
content unless --input is given.

Examples:
  einvoice-converter export rechnung.xml -f json
  einvoice-converter export invoice.json --input json -f xml
  einvoice-converter export rechnung.xml -f xlsx -o invoice.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportInput, "input", "", "Input format (erp, json, xml; default: detect)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xml", "Output format (xml, json, xlsx)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	addKeyFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	keys, err := conversionKeys()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result := newPipeline().Intermediate(ctx, raw, exportInput, keys, exportFormat)
	if result.Error != nil {
		return result.Error
	}
	return writeOutput(exportOutput, result.Output)
}
