package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	ErrMalformedInput    = errors.New("malformed input document")
	ErrUnknownInterface  = errors.New("unknown e-invoice interface")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrProfileNotFound   = errors.New("e-invoice profile not found")
)

// Source names the input vocabulary a ParseError was raised for
type Source string

const (
	SourceERPXML    Source = "erp-xml"
	SourceJSON      Source = "json"
	SourceXML       Source = "xml"
	SourceEInvoice  Source = "einvoice"
	SourceZBDetails Source = "zbdetails"
)

// ParseError represents an unparseable top-level document
type ParseError struct {
	Source  Source
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Source, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Source, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMalformedInput
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewParseError creates a new parse error
func NewParseError(source Source, field, message string, cause error) *ParseError {
	return &ParseError{
		Source:  source,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// InterfaceError is raised for an interface code other than Z or X
type InterfaceError struct {
	Value string
}

func (e *InterfaceError) Error() string {
	return fmt.Sprintf("e-invoice interface not known: %s", e.Value)
}

// Is reports whether target is ErrUnknownInterface
func (e *InterfaceError) Is(target error) bool {
	return target == ErrUnknownInterface
}

// NewInterfaceError creates a new interface error
func NewInterfaceError(value string) *InterfaceError {
	return &InterfaceError{Value: value}
}

// ExportFormatError is raised for an export format with no exporter
type ExportFormatError struct {
	Format string
}

func (e *ExportFormatError) Error() string {
	return fmt.Sprintf("export format %s is not supported", e.Format)
}

// Is reports whether target is ErrUnsupportedFormat
func (e *ExportFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// NewExportFormatError creates a new export format error
func NewExportFormatError(format string) *ExportFormatError {
	return &ExportFormatError{Format: format}
}

// ProfileError is raised when a profile name is not in the enumeration
type ProfileError struct {
	Name string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile not found: %s", e.Name)
}

// Is reports whether target is ErrProfileNotFound
func (e *ProfileError) Is(target error) bool {
	return target == ErrProfileNotFound
}

// NewProfileError creates a new profile error
func NewProfileError(name string) *ProfileError {
	return &ProfileError{Name: name}
}
