package core

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of a failed call.
type ErrorType int

// Error type constants categorize errors for programmatic handling.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates the request never produced an HTTP response.
	ErrorTypeNetwork
	// ErrorTypeRateLimit indicates the server answered 429.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or missing credentials (401/403).
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters (400).
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist (404).
	ErrorTypeNotFound
	// ErrorTypeUnprocessable indicates the request was understood but rejected (422),
	// e.g. insufficient quantity or buying power.
	ErrorTypeUnprocessable
	// ErrorTypeServerError indicates a server-side error (5xx).
	ErrorTypeServerError
	// ErrorTypeConfiguration indicates the client was misconfigured.
	ErrorTypeConfiguration
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"UNPROCESSABLE",
		"SERVER_ERROR",
		"CONFIGURATION",
	}[t]
}

// ErrorTypeFromStatus classifies an HTTP status code.
func ErrorTypeFromStatus(status int) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorTypeAuthentication
	case status == http.StatusBadRequest:
		return ErrorTypeBadRequest
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusUnprocessableEntity:
		return ErrorTypeUnprocessable
	case status >= http.StatusInternalServerError:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// Sentinel errors for common error conditions.
var (
	// ErrMissingCredentials is returned at construction when neither an access token
	// nor a key/secret pair is configured.
	ErrMissingCredentials = errors.New("missing credentials (need access token or key/secret)")
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrInvalidTokenCount is returned when a bucket is configured with a non-positive size or rate.
	ErrInvalidTokenCount = errors.New("capacity and fill rate must be positive")
)

// APIError is a non-2xx response from the API. Message holds the raw response
// body text exactly as received.
type APIError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response.
	StatusCode int `json:"status_code"`
	// Code is the provider error code, when the body carried one.
	Code string `json:"code,omitempty"`
	// Message is the raw response body.
	Message string `json:"message"`
	// Method and URL identify the failed request.
	Method string `json:"method"`
	URL    string `json:"url"`
	// Timestamp is when the response was received.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s %s] %s (%d/%s): %s",
			e.Method, e.URL, e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s %s] %s (%d): %s",
		e.Method, e.URL, e.Type, e.StatusCode, e.Message)
}

// WithCode sets the provider error code and returns the error for chaining.
func (e *APIError) WithCode(code string) *APIError {
	e.Code = code
	return e
}

// NewAPIError creates an APIError classified from the status code.
// The timestamp is automatically set to the current time.
func NewAPIError(method, url string, statusCode int, body string) *APIError {
	return &APIError{
		Type:       ErrorTypeFromStatus(statusCode),
		StatusCode: statusCode,
		Message:    body,
		Method:     method,
		URL:        url,
		Timestamp:  time.Now(),
	}
}

// TransportError is a failure below HTTP: DNS, connection refused, TLS, timeouts.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Type always reports ErrorTypeNetwork.
func (e *TransportError) Type() ErrorType {
	return ErrorTypeNetwork
}

// ConfigError reports a client that could not be built from its configuration:
// failed validation or missing credentials.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Type always reports ErrorTypeConfiguration.
func (e *ConfigError) Type() ErrorType {
	return ErrorTypeConfiguration
}

// TypeOf classifies err. Wrapped APIError, TransportError and ConfigError values
// report their own type; anything else is ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var typed interface{ Type() ErrorType }
	if errors.As(err, &typed) {
		return typed.Type()
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ErrorTypeUnknown
}

// IsTransportError returns true if the request failed before an HTTP response was received.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsConfigurationError returns true if the client could not be built from its configuration.
func IsConfigurationError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsAPIError returns true if the error is a non-2xx HTTP response.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

func isType(err error, t ErrorType) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Type == t
	}
	return false
}

// IsRateLimitError returns true if the server rejected the request with 429.
// The client never retries these itself.
func IsRateLimitError(err error) bool {
	return isType(err, ErrorTypeRateLimit)
}

// IsAuthenticationError returns true if the error is an authentication failure.
func IsAuthenticationError(err error) bool {
	return isType(err, ErrorTypeAuthentication)
}

// IsNotFoundError returns true if the requested resource does not exist.
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsServerError returns true if the server failed with a 5xx status.
func IsServerError(err error) bool {
	return isType(err, ErrorTypeServerError)
}
