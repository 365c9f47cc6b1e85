package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	extractFormat string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Show the fields read from an ERP export",
	Long: `Read an ERP flat invoice export and print every value found, named in
the interchange vocabulary, without mapping it to the invoice model.

Examples:
  einvoice-converter extract rechnung.xml
  einvoice-converter extract rechnung.xml -f xml --personaldata PERSONAL`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "Output format (xml, json, xlsx)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output file (default: stdout)")
	addKeyFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
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

	result := newPipeline().Extract(ctx, raw, keys, extractFormat)
	if result.Error != nil {
		return result.Error
	}
	return writeOutput(extractOutput, result.Output)
}
