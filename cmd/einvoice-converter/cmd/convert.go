package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-converter/internal/attach"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/model"
)

var (
	convertOutput    string
	convertKeys      []string
	convertInterface string
	convertPersonal  string
	convertZBDetails string
	convertDebugFile string
	convertPDF       string
	convertPDFOut    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert an ERP export to a CII e-invoice",
	Long: `Convert an ERP flat invoice export into CII XML.

The interface type selects the profile: Z writes ZUGFeRD EXTENDED, X writes
XRechnung. It is taken from --interface, then from the document, then from
DEFAULT_INTERFACE, then defaults to Z.

With --pdf the e-invoice is also embedded into a copy of the given PDF as
factur-x.xml or xrechnung.xml.

Examples:
  einvoice-converter convert rechnung.xml
  einvoice-converter convert rechnung.xml --interface X -o xrechnung.xml
  einvoice-converter convert rechnung.xml --personaldata PERSONAL --zbdetails zb.xml
  einvoice-converter convert rechnung.xml --key ZBDETAILS='<SKONTOTAGE1>10</SKONTOTAGE1>'
  einvoice-converter convert rechnung.xml --pdf rechnung.pdf --pdf-out hybrid.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default: stdout)")
	addKeyFlags(convertCmd)
	convertCmd.Flags().StringVar(&convertDebugFile, "debug-file", "", "Write the intermediate invoice XML to this file")
	convertCmd.Flags().StringVar(&convertPDF, "pdf", "", "PDF to embed the e-invoice into")
	convertCmd.Flags().StringVar(&convertPDFOut, "pdf-out", "", "Hybrid PDF output (default: overwrite --pdf)")
}

func runConvert(cmd *cobra.Command, args []string) error {
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

	result := newPipeline().ConvertTo(ctx, raw, keys, convertDebugFile)
	printWarnings(result)
	if result.Error != nil {
		return result.Error
	}
	printVerbose("Profile: %s\n", result.Profile)
	if result.DebugFile != "" {
		printVerbose("Intermediate invoice written to %s\n", result.DebugFile)
	}

	if convertPDF != "" {
		profile, err := einvoice.ProfileByName(result.Profile)
		if err != nil {
			return err
		}
		out := convertPDFOut
		if out == "" {
			out = convertPDF
		}
		if err := attach.Embed(convertPDF, out, result.Output, profile); err != nil {
			return err
		}
		printVerbose("Hybrid PDF written to %s\n", out)
	}

	return writeOutput(convertOutput, result.Output)
}

// addKeyFlags registers the conversion key flags on c
func addKeyFlags(c *cobra.Command) {
	c.Flags().StringArrayVar(&convertKeys, "key", nil, "Conversion key as NAME=VALUE (repeatable)")
	c.Flags().StringVar(&convertInterface, "interface", "", "Interface type: Z (ZUGFeRD) or X (XRechnung)")
	c.Flags().StringVar(&convertPersonal, "personaldata", "", "Contact data mode; PERSONAL reads personnel tags")
	c.Flags().StringVar(&convertZBDetails, "zbdetails", "", "File holding the payment term details fragment")
}

// conversionKeys merges --key pairs with the dedicated flags, which win
func conversionKeys() (model.ConversionKeys, error) {
	keys, err := parseKeys(convertKeys)
	if err != nil {
		return nil, err
	}
	if convertInterface != "" {
		keys.Set(model.KeyInterface, convertInterface)
	}
	if convertPersonal != "" {
		keys.Set(model.KeyPersonalData, convertPersonal)
	}
	if convertZBDetails != "" {
		fragment, err := os.ReadFile(convertZBDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to read payment term details: %w", err)
		}
		keys.Set(model.KeyZBDetails, string(fragment))
	}
	return keys, nil
}
