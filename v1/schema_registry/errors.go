package schema_registry

import (
	"errors"
	"fmt"
	"net/http"
)

// Common registry errors
var (
	// ErrNotFound is returned when a subject, version or schema id does not exist.
	ErrNotFound = errors.New("schema registry: not found")

	// ErrRegistryUnavailable is returned for transport failures, timeouts and
	// server side errors. It is the only retryable error.
	ErrRegistryUnavailable = errors.New("schema registry: unavailable")

	// ErrCompatibilityRejected is returned when a schema violates the
	// compatibility level of its subject.
	ErrCompatibilityRejected = errors.New("schema registry: schema is incompatible")

	// ErrInvalidSchema is returned when the registry cannot parse a schema.
	ErrInvalidSchema = errors.New("schema registry: invalid schema")

	// ErrInvalidCompatibilityLevel is returned for unknown compatibility levels.
	ErrInvalidCompatibilityLevel = errors.New("schema registry: invalid compatibility level")

	// ErrUnauthorized is returned when the registry rejects the credentials.
	ErrUnauthorized = errors.New("schema registry: unauthorized")

	// ErrClosed is returned when the client is closed.
	ErrClosed = errors.New("schema registry: client is closed")
)

// Confluent error codes used by the registries in this package.
const (
	codeSubjectNotFound      = 40401
	codeVersionNotFound      = 40402
	codeSchemaNotFound       = 40403
	codeIncompatibleSchema   = 409
	codeInvalidSchema        = 42201
	codeInvalidCompatibility = 42203
	codeBackendError         = 50001
)

// APIError is a registry error response. It unwraps to one of the sentinel
// errors above so callers can use errors.Is.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("schema registry returned status %d (code %d): %s", e.StatusCode, e.ErrorCode, e.Message)
}

// Unwrap maps the HTTP status onto the error taxonomy.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrCompatibilityRejected
	case e.StatusCode == http.StatusUnprocessableEntity && e.ErrorCode == codeInvalidCompatibility:
		return ErrInvalidCompatibilityLevel
	case e.StatusCode == http.StatusUnprocessableEntity:
		return ErrInvalidSchema
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusTooManyRequests,
		e.StatusCode >= 500:
		return ErrRegistryUnavailable
	}
	return nil
}

func notFound(code int, format string, args ...interface{}) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, ErrorCode: code, Message: fmt.Sprintf(format, args...)}
}

func incompatible(format string, args ...interface{}) *APIError {
	return &APIError{StatusCode: http.StatusConflict, ErrorCode: codeIncompatibleSchema, Message: fmt.Sprintf(format, args...)}
}

func invalidSchema(err error) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: codeInvalidSchema, Message: err.Error()}
}

// IsNotFoundError checks if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRegistryUnavailableError checks if the error is transient.
func IsRegistryUnavailableError(err error) bool {
	return errors.Is(err, ErrRegistryUnavailable)
}

// IsCompatibilityRejectedError checks if the error is a compatibility rejection.
func IsCompatibilityRejectedError(err error) bool {
	return errors.Is(err, ErrCompatibilityRejected)
}

// IsInvalidSchemaError checks if the registry refused to parse a schema.
func IsInvalidSchemaError(err error) bool {
	return errors.Is(err, ErrInvalidSchema)
}
