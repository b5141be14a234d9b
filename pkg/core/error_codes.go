package core

import (
	"errors"
	"strconv"

	"github.com/bytedance/sonic"
)

// ErrorCode is the numeric error identifier the API puts in error bodies,
// e.g. {"code":40310000,"message":"insufficient buying power"}.
type ErrorCode string

// Error codes returned by the trading API.
const (
	ErrCodeMalformedRequest ErrorCode = "40010000"
	ErrCodeUnauthorized     ErrorCode = "40110000"
	ErrCodeForbidden        ErrorCode = "40310000"
	ErrCodeNotFound         ErrorCode = "40410000"
	ErrCodeUnprocessable    ErrorCode = "42210000"
	ErrCodeTooManyRequests  ErrorCode = "42910000"
	ErrCodeInternalError    ErrorCode = "50010000"
)

type errorBody struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// ParseErrorCode extracts the "code" field from an error response body.
// It returns an empty string when the body is not JSON or carries no code.
func ParseErrorCode(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return ""
	}
	switch v := eb.Code.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// IsErrorCode checks if the error is an APIError carrying the specified code.
func IsErrorCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ErrorCode(apiErr.Code) == code
	}
	return false
}
