// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/einvoice-converter/internal/codes"
	"github.com/rezonia/einvoice-converter/internal/einvoice"
	"github.com/rezonia/einvoice-converter/internal/export"
	"github.com/rezonia/einvoice-converter/internal/inbound"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/processor"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RateLimit is in requests per second; zero disables limiting
	RateLimit float64
	RateBurst int
	Debug     bool

	// Conversion settings
	Tables           *codes.Tables
	DefaultInterface string
	DebugDir         string
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	http     *http.Server
}

const requestTimeout = 30 * time.Second

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	if config.RateLimit > 0 {
		router.Use(rateLimit(config.RateLimit, config.RateBurst))
	}

	pipeline := processor.NewPipeline(
		processor.WithTables(config.Tables),
		processor.WithDefaultInterface(config.DefaultInterface),
		processor.WithDebugDir(config.DebugDir),
	)

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
	}
	s.http = &http.Server{
		Addr:         config.Address,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/convert", s.handleConvert)
		v1.POST("/extract", s.handleExtract)
		v1.POST("/normalize", s.handleNormalize)
		v1.POST("/intermediate", s.handleIntermediate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for active requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result := s.pipeline.Convert(ctx, body, conversionKeys(c))
	if result.Error != nil {
		fail(c, result)
		return
	}
	c.Header(HeaderProfile, result.Profile)
	respond(c, result)
}

func (s *Server) handleExtract(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result := s.pipeline.Extract(ctx, body, conversionKeys(c), c.DefaultQuery("format", "json"))
	if result.Error != nil {
		fail(c, result)
		return
	}
	respond(c, result)
}

func (s *Server) handleNormalize(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	if processor.DetectFormat(body) != processor.FormatCII {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "request body is not a CII e-invoice",
			RequestID: c.GetString(ctxRequestID),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result := s.pipeline.Normalize(ctx, body, c.DefaultQuery("format", "json"))
	if result.Error != nil {
		fail(c, result)
		return
	}
	c.Header(HeaderProfile, result.Profile)
	respond(c, result)
}

func (s *Server) handleIntermediate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	input := c.Query("input")
	if input != "" {
		if _, err := inbound.ParseFormat(input); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), RequestID: c.GetString(ctxRequestID)})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result := s.pipeline.Intermediate(ctx, body, input, conversionKeys(c), c.DefaultQuery("format", "json"))
	if result.Error != nil {
		fail(c, result)
		return
	}
	respond(c, result)
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	format := processor.DetectFormat(body)
	resp := InfoResponse{
		Format:   format.String(),
		MimeType: mimeType(format),
		Size:     len(body),
	}
	if format == processor.FormatCII {
		if imported, err := einvoice.ImportBytes(body); err == nil {
			resp.Profile = imported.Profile.Name
			resp.InvoiceNumber = imported.Invoice.Number
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Helper functions

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", RequestID: c.GetString(ctxRequestID)})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body", RequestID: c.GetString(ctxRequestID)})
		return nil, false
	}
	return body, true
}

// conversionKeys collects the directives passed as query parameters
func conversionKeys(c *gin.Context) model.ConversionKeys {
	keys := model.ConversionKeys{}
	for _, name := range []string{model.KeyInterface, model.KeyPersonalData, model.KeyZBDetails} {
		if v, ok := c.GetQuery(strings.ToLower(name)); ok {
			keys.Set(name, v)
		}
	}
	return keys
}

func respond(c *gin.Context, result *processor.Result) {
	for _, w := range result.Warnings {
		c.Writer.Header().Add(HeaderWarning, w)
	}
	c.Data(http.StatusOK, result.ContentType, result.Output)
}

// fail reports a pipeline error; an unsupported format is the client's
// fault, every other failure means the document could not be converted
func fail(c *gin.Context, result *processor.Result) {
	status := http.StatusUnprocessableEntity
	if errors.Is(result.Error, model.ErrUnsupportedFormat) {
		status = http.StatusBadRequest
	}

	log := requestLogger(c)
	log.Error().
		Err(result.Error).
		Int("status", status).
		Str("path", c.Request.URL.Path).
		Msg("conversion failed")

	c.JSON(status, ErrorResponse{
		Error:     result.Error.Error(),
		RequestID: c.GetString(ctxRequestID),
		Warnings:  result.Warnings,
	})
}

func mimeType(format processor.Format) string {
	switch format {
	case processor.FormatERP, processor.FormatCII, processor.FormatIntermediateXML:
		return "application/xml"
	case processor.FormatJSON:
		return "application/json"
	case processor.FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ExportFormats lists the format names accepted by the format parameter
func ExportFormats() []string {
	return []string{
		strings.ToLower(string(export.FormatXML)),
		strings.ToLower(string(export.FormatJSON)),
		strings.ToLower(string(export.FormatXLSX)),
	}
}
