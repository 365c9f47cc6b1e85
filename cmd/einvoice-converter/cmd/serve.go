package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-converter/internal/config"
	"github.com/rezonia/einvoice-converter/internal/server"
)

var serverDebug bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for converting invoices.

The API provides endpoints for:
  - POST /api/v1/convert       - ERP export to e-invoice XML (?interface=, ?personaldata=, ?zbdetails=)
  - POST /api/v1/extract       - ERP export to interchange record (?format=)
  - POST /api/v1/normalize     - CII e-invoice to intermediate invoice (?format=)
  - POST /api/v1/intermediate  - ERP export, XML or JSON to intermediate invoice (?input=, ?format=)
  - POST /api/v1/info          - Detect the format of a document
  - GET  /health               - Health check

Format parameters accept: ` + strings.Join(server.ExportFormats(), ", ") + `

Examples:
  # Start server on default port
  einvoice-converter serve

  # Start on a custom port without rate limiting
  HTTP_RATE_LIMIT=0 einvoice-converter serve --address :9090

  # Start in debug mode
  einvoice-converter serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", ":8080", "Server listen address (env: HTTP_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().Duration("read-timeout", 30*time.Second, "HTTP read timeout (env: HTTP_READ_TIMEOUT)")
	serveCmd.Flags().Duration("write-timeout", 2*time.Minute, "HTTP write timeout (env: HTTP_WRITE_TIMEOUT)")
	serveCmd.Flags().Float64("rate-limit", 20, "Requests per second, 0 disables limiting (env: HTTP_RATE_LIMIT)")

	cobra.CheckErr(v.BindPFlag(config.KeyHTTPAddress, serveCmd.Flags().Lookup("address")))
	cobra.CheckErr(v.BindPFlag(config.KeyHTTPReadTimeout, serveCmd.Flags().Lookup("read-timeout")))
	cobra.CheckErr(v.BindPFlag(config.KeyHTTPWriteTimeout, serveCmd.Flags().Lookup("write-timeout")))
	cobra.CheckErr(v.BindPFlag(config.KeyHTTPRateLimit, serveCmd.Flags().Lookup("rate-limit")))
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.NewServer(&server.Config{
		Address:          cfg.HTTP.Address,
		ReadTimeout:      cfg.HTTP.ReadTimeout,
		WriteTimeout:     cfg.HTTP.WriteTimeout,
		RateLimit:        cfg.HTTP.RateLimit,
		RateBurst:        cfg.HTTP.RateBurst,
		Debug:            serverDebug,
		Tables:           tables,
		DefaultInterface: cfg.Conversion.DefaultInterface,
		DebugDir:         cfg.Conversion.DebugDir,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	log.Info().
		Str("address", cfg.HTTP.Address).
		Float64("rate_limit", cfg.HTTP.RateLimit).
		Str("debug_dir", cfg.Conversion.DebugDir).
		Msg("server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
