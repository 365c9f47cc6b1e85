package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rezonia/einvoice-converter/internal/codes"
	"github.com/rezonia/einvoice-converter/internal/config"
	"github.com/rezonia/einvoice-converter/internal/logger"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/processor"
)

var (
	version = "1.0.0"

	// Global flags
	verbose bool
	timeout time.Duration

	v         = viper.New()
	cfg       *config.Config
	tables    *codes.Tables
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "einvoice-converter",
	Short: "Convert ERP invoice exports to ZUGFeRD/XRechnung e-invoices",
	Long: `einvoice-converter turns the ERP's flat invoice export into a CII
e-invoice (ZUGFeRD EXTENDED or XRechnung) and reads e-invoices back into
the intermediate invoice model.

Examples:
  # Convert an export to an e-invoice
  einvoice-converter convert rechnung.xml -o rechnung-cii.xml

  # Force the cross-border interface and embed the result into a PDF
  einvoice-converter convert rechnung.xml --interface X --pdf rechnung.pdf --pdf-out hybrid.pdf

  # Inspect the intermediate invoice as JSON
  einvoice-converter export rechnung.xml -f json

  # Read an e-invoice back
  einvoice-converter normalize rechnung-cii.xml -f xlsx -o rechnung.xlsx`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  initConfig,
	PersistentPostRunE: closeLog,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "Processing timeout per file")
	flags.String("log-level", "info", "Log level (env: LOG_LEVEL)")
	flags.String("log-format", "console", "Log format: console or json (env: LOG_FORMAT)")
	flags.String("debug-dir", "", "Write every intermediate invoice to this directory (env: DEBUG_DIR)")
	flags.String("default-interface", "", "Interface used when the document names none (env: DEFAULT_INTERFACE)")
	flags.String("code-tables", "", "YAML file replacing the embedded unit and document tables (env: CODE_TABLES_FILE)")

	cobra.CheckErr(v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format")))
	cobra.CheckErr(v.BindPFlag(config.KeyDebugDir, flags.Lookup("debug-dir")))
	cobra.CheckErr(v.BindPFlag(config.KeyDefaultInterface, flags.Lookup("default-interface")))
	cobra.CheckErr(v.BindPFlag(config.KeyCodeTablesFile, flags.Lookup("code-tables")))
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(v); err != nil {
		return err
	}
	if logCloser, err = logger.Setup(cfg.Logger()); err != nil {
		return err
	}

	tables = codes.Default()
	if path := cfg.Conversion.CodeTablesFile; path != "" {
		if tables, err = codes.Load(path); err != nil {
			return fmt.Errorf("failed to load code tables: %w", err)
		}
		printVerbose("Code tables loaded from %s\n", path)
	}
	return nil
}

func closeLog(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func newPipeline() *processor.Pipeline {
	return processor.NewPipeline(
		processor.WithTables(tables),
		processor.WithDefaultInterface(cfg.Conversion.DefaultInterface),
		processor.WithDebugDir(cfg.Conversion.DebugDir),
	)
}

// parseKeys reads NAME=VALUE pairs
func parseKeys(pairs []string) (model.ConversionKeys, error) {
	keys := model.ConversionKeys{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid key %q, expected NAME=VALUE", pair)
		}
		keys.Set(strings.TrimSpace(name), value)
	}
	return keys, nil
}

// writeOutput writes data to path, or to stdout when path is empty
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	printVerbose("Output written to %s\n", path)
	return nil
}

func printWarnings(result *processor.Result) {
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
