package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies errors for propagation and HTTP mapping decisions.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"
	TypeUnavailable   Type = "UNAVAILABLE"
	TypeInternal      Type = "INTERNAL"
)

// Error is the error value used across service boundaries. It carries a
// stable wire code, an HTTP status, and user-facing remediation suggestions
// alongside the wrapped cause.
type Error struct {
	Code        string
	Message     string
	Type        Type
	HTTPStatus  int
	Details     map[string]any
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with an explicit code, type, and HTTP status.
func New(code, message string, t Type, status int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Type:       t,
		HTTPStatus: status,
	}
}

// Wrap annotates an underlying error. The HTTP status defaults to 500;
// callers can override it with WithStatus.
func Wrap(err error, message string, t Type) *Error {
	return &Error{
		Code:       "internal_error",
		Message:    message,
		Type:       t,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// WithCode overrides the wire code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithStatus overrides the HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithDetail attaches structured context to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithSuggestions sets the remediation suggestions surfaced to the caller.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = suggestions
	return e
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// ErrorCode is a registered error definition. Registries hand these out so
// each domain declares its wire codes in one place.
type ErrorCode struct {
	code        string
	errType     Type
	httpStatus  int
	message     string
	suggestions []string
}

// Code returns the wire code of the definition.
func (c ErrorCode) Code() string { return c.code }

// Registry scopes a set of error definitions to one domain.
type Registry struct {
	prefix string
}

// NewRegistry creates a registry. The prefix namespaces log output only; the
// wire code is exactly what Register receives.
func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix}
}

// Register declares an error definition.
func (r *Registry) Register(code string, t Type, status int, message string) ErrorCode {
	return ErrorCode{
		code:       code,
		errType:    t,
		httpStatus: status,
		message:    message,
	}
}

// RegisterWithSuggestions declares an error definition with default
// remediation suggestions.
func (r *Registry) RegisterWithSuggestions(code string, t Type, status int, message string, suggestions ...string) ErrorCode {
	ec := r.Register(code, t, status, message)
	ec.suggestions = suggestions
	return ec
}

// New materializes a registered definition into an error value.
func (r *Registry) New(c ErrorCode) *Error {
	return &Error{
		Code:        c.code,
		Message:     c.message,
		Type:        c.errType,
		HTTPStatus:  c.httpStatus,
		Suggestions: c.suggestions,
	}
}
