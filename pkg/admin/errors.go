package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the normalized shape of every failed API call.
type APIError struct {
	Status  int    `json:"status"  yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Cause   error  `json:"-"       yaml:"-"`
}

// NewAPIError creates an APIError. A zero status defaults to 500.
func NewAPIError(status int, message string, cause error) *APIError {
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if message == "" {
		message = "Unknown error"
	}

	return &APIError{
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// Unwrap returns the original cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// errorBody covers the error payload shapes commonly returned by JSON APIs.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ParseErrorResponse builds an APIError from a failed HTTP response.
func ParseErrorResponse(status int, body []byte) *APIError {
	cause := fmt.Errorf("%w with status code %d", ErrRequestFailed, status)
	message := fmt.Sprintf("Request failed with status code %d", status)

	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err == nil {
		switch {
		case strings.TrimSpace(parsed.Message) != "":
			message = parsed.Message
		case strings.TrimSpace(parsed.Error) != "":
			message = parsed.Error
		}
	}

	return NewAPIError(status, message, cause)
}

// AsAPIError extracts an APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)

	return ok && apiErr.Status == http.StatusNotFound
}

// ErrorMessage returns a human readable message for err, or fallback when err
// carries none.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	apiErr, ok := AsAPIError(err)
	if ok && apiErr.Message != "" {
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return fallback
}

// Common static errors that can be wrapped with context.
var (
	ErrRequestFailed        = errors.New("request failed")
	ErrConfigRequired       = errors.New("config is required")
	ErrAPIEndpointRequired  = errors.New("API endpoint is required")
	ErrInvalidEndpoint      = errors.New("invalid API endpoint")
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrInvalidID            = errors.New("invalid id")
	ErrInterceptorsRequired = errors.New("interceptor chain is required")
)
