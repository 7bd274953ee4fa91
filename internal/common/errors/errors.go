// Package errors provides standardized error handling for the Unit applications client.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Wire mapping errors
const (
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeDateParseFailed  ErrorCode = "DATE_PARSE_FAILED"
	ErrCodeTypeMismatch     ErrorCode = "TYPE_MISMATCH"
	ErrCodeInvalidEnumValue ErrorCode = "INVALID_ENUM_VALUE"

	ErrCodeEnvelopeInvalid         ErrorCode = "ENVELOPE_INVALID"
	ErrCodeUnexpectedResourceType  ErrorCode = "UNEXPECTED_RESOURCE_TYPE"
	ErrCodeRequestValidationFailed ErrorCode = "REQUEST_VALIDATION_FAILED"
)

// Transport errors
const (
	ErrCodeAPIRequestFailed ErrorCode = "API_REQUEST_FAILED"
	ErrCodeAPITimeout       ErrorCode = "API_TIMEOUT"
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
}

// Field returns the wire field name recorded on the error, if any.
func (e *StandardError) Field() string {
	s, _ := e.Metadata["field"].(string)
	return s
}

// Resource returns the resource type recorded on the error, if any.
func (e *StandardError) Resource() string {
	s, _ := e.Metadata["resource"].(string)
	return s
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingFieldError reports a required wire attribute that is absent.
func NewMissingFieldError(resource, field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingField,
		Message:   "Required field missing",
		Details:   fmt.Sprintf("resource: %s, field: %s", resource, field),
		Retryable: false,
		Metadata:  map[string]interface{}{"resource": resource, "field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewDateParseError reports a date or timestamp string in the wrong format.
func NewDateParseError(value, layout string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDateParseFailed,
		Message:   "Date string does not match expected format",
		Details:   fmt.Sprintf("value: %q, layout: %s, error: %v", value, layout, err),
		Retryable: false,
		Metadata:  map[string]interface{}{"value": value, "layout": layout},
		Timestamp: time.Now().UTC(),
	}
}

// NewTypeMismatchError reports a wire value of the wrong JSON type.
func NewTypeMismatchError(resource, field, expected string, got interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeTypeMismatch,
		Message:   "Unexpected wire value type",
		Details:   fmt.Sprintf("resource: %s, field: %s, expected: %s, got: %T", resource, field, expected, got),
		Retryable: false,
		Metadata:  map[string]interface{}{"resource": resource, "field": field, "expected": expected},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidEnumValueError reports a value outside a closed enumeration.
func NewInvalidEnumValueError(resource, field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEnumValue,
		Message:   "Value is not a member of the enumeration",
		Details:   fmt.Sprintf("resource: %s, field: %s, value: %q", resource, field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"resource": resource, "field": field, "value": value},
		Timestamp: time.Now().UTC(),
	}
}

// NewEnvelopeInvalidError reports a response body that is not a JSON:API document.
func NewEnvelopeInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnvelopeInvalid,
		Message:   "Invalid JSON:API document",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedResourceTypeError reports a resource type no decoder handles.
func NewUnexpectedResourceTypeError(resourceType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedResourceType,
		Message:   "Unsupported resource type",
		Details:   fmt.Sprintf("type: %s", resourceType),
		Retryable: false,
		Metadata:  map[string]interface{}{"type": resourceType},
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestValidationFailedError reports an outbound request that fails validation.
func NewRequestValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAPIRequestFailedError reports a non-2xx API response. 5xx and 429 are retryable.
func NewAPIRequestFailedError(method, path string, status int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIRequestFailed,
		Message:   fmt.Sprintf("%s %s returned %d", method, path, status),
		Details:   details,
		Retryable: IsRetryableStatus(status),
		Metadata:  map[string]interface{}{"method": method, "path": path, "status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewAPITimeoutError reports a request that exceeded its deadline.
func NewAPITimeoutError(method, path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPITimeout,
		Message:   "API request timeout",
		Details:   fmt.Sprintf("%s %s: %v", method, path, err),
		Retryable: IsRetryableErrorCode(ErrCodeAPITimeout),
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError reports a cache backend failure.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache backend unavailable",
		Details:   err.Error(),
		Retryable: IsRetryableErrorCode(ErrCodeCacheUnavailable),
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to the first StandardError in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode reports codes that are retryable whatever the response.
// API_REQUEST_FAILED is decided per status by IsRetryableStatus.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeAPITimeout, ErrCodeCacheUnavailable:
		return true
	default:
		return false
	}
}

// IsRetryableStatus reports whether an HTTP status is worth retrying.
func IsRetryableStatus(status int) bool {
	return status >= 500 || status == 429
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "API_"):
		return "TRANSPORT"
	case strings.HasPrefix(codeStr, "CACHE_"):
		return "CACHE"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case code == ErrCodeEnvelopeInvalid || code == ErrCodeUnexpectedResourceType:
		return "ENVELOPE"
	case code == ErrCodeMissingField || code == ErrCodeDateParseFailed ||
		code == ErrCodeTypeMismatch || code == ErrCodeInvalidEnumValue:
		return "MAPPING"
	default:
		return "OTHER"
	}
}
