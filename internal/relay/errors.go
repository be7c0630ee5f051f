package relay

import (
	"fmt"
	"net/http"

	"github.com/sleepstars/chatrelay/internal/models"
)

// ConfigurationError means the server-side credential is missing or blank.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Server misconfiguration: %s missing.", e.Key)
}

func (e *ConfigurationError) StatusCode() int { return http.StatusInternalServerError }

// ValidationError means the inbound body cannot be relayed as sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// UpstreamError carries a non-2xx reply from the model API. It is answered
// with the upstream status and body unchanged.
type UpstreamError struct {
	Response *models.UpstreamResponse
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Response.StatusCode)
}

func (e *UpstreamError) StatusCode() int { return e.Response.StatusCode }

// TransportError means no usable reply came back from the model API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "Unknown server error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) StatusCode() int { return http.StatusInternalServerError }

// MethodError is returned for methods other than POST and OPTIONS.
type MethodError struct {
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("Method %s not allowed.", e.Method)
}

func (e *MethodError) StatusCode() int { return http.StatusMethodNotAllowed }

type statusCoder interface {
	StatusCode() int
}
