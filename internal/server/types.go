package server

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
	// Profile and InvoiceNumber are set for e-invoices
	Profile       string `json:"profile,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error     string   `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Response headers set on successful conversions
const (
	HeaderRequestID = "X-Request-ID"
	HeaderProfile   = "X-Einvoice-Profile"
	HeaderWarning   = "X-Conversion-Warning"
)
