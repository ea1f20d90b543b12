package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrorObject is a JSON:API error object
type ErrorObject struct {
	Status string                 `json:"status"`
	Code   string                 `json:"code,omitempty"`
	Title  string                 `json:"title"`
	Detail string                 `json:"detail,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// ErrorDocument is the top-level JSON:API error document
type ErrorDocument struct {
	Errors []*ErrorObject `json:"errors"`
}

// RenderError renders a JSON:API error document
func RenderError(w http.ResponseWriter, statusCode int, err error) {
	RenderErrorWithCode(w, statusCode, err, "")
}

// RenderErrorWithCode renders an error with a specific error code
func RenderErrorWithCode(w http.ResponseWriter, statusCode int, err error, code string) {
	if code == "" {
		code = errorCodeFromStatus(statusCode)
	}

	obj := &ErrorObject{
		Status: strconv.Itoa(statusCode),
		Code:   code,
		Title:  http.StatusText(statusCode),
	}
	if err != nil {
		obj.Detail = err.Error()
	}

	writeErrors(w, statusCode, obj)
}

// RenderErrorWithDetails renders an error with additional details under meta
func RenderErrorWithDetails(w http.ResponseWriter, statusCode int, err error, details map[string]interface{}) {
	obj := &ErrorObject{
		Status: strconv.Itoa(statusCode),
		Code:   errorCodeFromStatus(statusCode),
		Title:  http.StatusText(statusCode),
		Meta:   details,
	}
	if err != nil {
		obj.Detail = err.Error()
	}

	writeErrors(w, statusCode, obj)
}

func writeErrors(w http.ResponseWriter, statusCode int, objs ...*ErrorObject) {
	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(&ErrorDocument{Errors: objs})
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, message string) {
	RenderError(w, http.StatusBadRequest, fmt.Errorf("%s", message))
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderError(w, http.StatusNotFound, fmt.Errorf("%s", message))
}

// RenderMethodNotAllowed renders a 405 Method Not Allowed error
func RenderMethodNotAllowed(w http.ResponseWriter, allowedMethods []string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	RenderError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
}

// RenderInternalError renders a 500 Internal Server Error
func RenderInternalError(w http.ResponseWriter, err error) {
	message := "Internal server error"
	if err != nil {
		message = err.Error()
	}
	RenderError(w, http.StatusInternalServerError, fmt.Errorf("%s", message))
}

// errorCodeFromStatus maps HTTP status codes to error codes
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusNotAcceptable:
		return "not_acceptable"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       errorCodeFromStatus(statusCode),
	}
}

// WithCode sets a custom error code
func (e *HTTPError) WithCode(code string) *HTTPError {
	e.Code = code
	return e
}

// WithDetails adds details to the error
func (e *HTTPError) WithDetails(details map[string]interface{}) *HTTPError {
	e.Details = details
	return e
}

// Render renders the HTTP error as a response
func (e *HTTPError) Render(w http.ResponseWriter) {
	if len(e.Details) > 0 {
		RenderErrorWithDetails(w, e.StatusCode, e, e.Details)
	} else {
		RenderErrorWithCode(w, e.StatusCode, e, e.Code)
	}
}
