package crawler

import (
	"errors"
	"fmt"
)

// ErrorType categorizes the ways a submission can fail
type ErrorType string

const (
	ErrorTypeMissingCredential ErrorType = "missing_credential"
	ErrorTypeMissingURL        ErrorType = "missing_url"
	ErrorTypeInvalidURL        ErrorType = "invalid_url"
	ErrorTypeOperationFailed   ErrorType = "operation_failed"
	ErrorTypeUnexpected        ErrorType = "unexpected_failure"
	ErrorTypeBusy              ErrorType = "busy"
)

// GenericFailureMessage is shown when an operation fails without a reason.
const GenericFailureMessage = "Failed to crawl website"

// CrawlError represents a structured submission error
type CrawlError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *CrawlError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether the error was raised before anything ran.
func (e *CrawlError) IsValidation() bool {
	switch e.Type {
	case ErrorTypeMissingCredential, ErrorTypeMissingURL, ErrorTypeInvalidURL:
		return true
	default:
		return false
	}
}

// Title returns the headline used for notifications.
func (e *CrawlError) Title() string {
	switch e.Type {
	case ErrorTypeMissingCredential:
		return "API Key Required"
	case ErrorTypeMissingURL:
		return "URL Required"
	case ErrorTypeInvalidURL:
		return "Invalid URL"
	case ErrorTypeBusy:
		return "Crawl In Progress"
	default:
		return "Error"
	}
}

// UserMessage returns a user-friendly error message
func (e *CrawlError) UserMessage() string {
	switch e.Type {
	case ErrorTypeMissingCredential:
		return "Please enter your API key to proceed"
	case ErrorTypeMissingURL:
		return "Please enter a website URL to crawl"
	case ErrorTypeInvalidURL:
		return "Please enter a valid URL (including http:// or https://)"
	case ErrorTypeBusy:
		return "A crawl is already running. Wait for it to finish."
	case ErrorTypeOperationFailed:
		if e.Message == "" {
			return GenericFailureMessage
		}
		return e.Message
	default:
		return GenericFailureMessage
	}
}

// IsType reports whether err is a *CrawlError of type t.
func IsType(err error, t ErrorType) bool {
	var crawlErr *CrawlError
	return errors.As(err, &crawlErr) && crawlErr.Type == t
}

// Helper functions to create specific error types
func newMissingCredentialError() *CrawlError {
	return &CrawlError{Type: ErrorTypeMissingCredential, Message: "API key is required"}
}

func newMissingURLError(cause error) *CrawlError {
	return &CrawlError{Type: ErrorTypeMissingURL, Message: "URL is required", Cause: cause}
}

func newInvalidURLError(cause error) *CrawlError {
	return &CrawlError{Type: ErrorTypeInvalidURL, Message: "URL is not absolute", Cause: cause}
}

// NewOperationFailedError wraps a failure reported by the crawl operation.
func NewOperationFailedError(reason string) *CrawlError {
	return &CrawlError{Type: ErrorTypeOperationFailed, Message: reason}
}

func newUnexpectedError(cause error) *CrawlError {
	return &CrawlError{Type: ErrorTypeUnexpected, Message: "unexpected failure", Cause: cause}
}

func newBusyError() *CrawlError {
	return &CrawlError{Type: ErrorTypeBusy, Message: "a crawl is already in flight"}
}
