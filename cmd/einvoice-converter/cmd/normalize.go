package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	normalizeFormat string
	normalizeOutput string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <cii-file>",
	Short: "Read a CII e-invoice back into the intermediate invoice",
	Long: `Read a CII e-invoice and export the intermediate invoice it maps to.
Only values the conversion writes into an e-invoice are restored.

Examples:
  einvoice-converter normalize xrechnung.xml
  einvoice-converter normalize xrechnung.xml -f json -o invoice.json`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&normalizeFormat, "format", "f", "xml", "Output format (xml, json, xlsx)")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "Output file (default: stdout)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result := newPipeline().Normalize(ctx, raw, normalizeFormat)
	printWarnings(result)
	if result.Error != nil {
		return result.Error
	}
	printVerbose("Profile: %s\n", result.Profile)
	return writeOutput(normalizeOutput, result.Output)
}
