package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures so handlers can pick a status code without
// knowing which adapter produced them.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindForbidden
	KindNotFound
	KindConflict
	KindPaymentGateway
	KindStorage
	KindAiProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindForbidden:
		return "ForbiddenError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindPaymentGateway:
		return "PaymentGatewayError"
	case KindStorage:
		return "StorageError"
	case KindAiProvider:
		return "AiProviderError"
	default:
		return "InternalError"
	}
}

// HTTPStatus maps the kind to the status code returned by the API.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPaymentGateway, KindStorage, KindAiProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type surfaced by services. Err keeps the provider error
// for logging, Data carries an optional payload for the response body.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
	Data    any
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an external failure with a kind while preserving it.
func Wrap(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches copies of the same sentinel, e.g. one returned by WithData.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// KindOf reports the kind of err, KindInternal when err is not a *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// DataOf returns the payload attached to err, if any.
func DataOf(err error) any {
	var de *Error
	if errors.As(err, &de) {
		return de.Data
	}
	return nil
}
