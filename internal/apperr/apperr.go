// Package apperr defines the tagged error values produced at the HTTP
// boundary. Downstream code matches on Kind instead of probing response
// fields defensively.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for display and handling decisions.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a client-side rejection; no request was sent.
	KindValidation
	// KindUnauthorized maps HTTP 401.
	KindUnauthorized
	// KindPayload maps HTTP 400/413 (bad or oversized payload).
	KindPayload
	// KindNotFound maps HTTP 404.
	KindNotFound
	// KindServer maps HTTP 5xx.
	KindServer
	// KindTransport is a network-level failure (timeout, unreachable host).
	KindTransport
)

// String returns a stable name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindPayload:
		return "payload"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error carries a kind, a human-readable message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string // shown to the user as-is
	Status  int    // HTTP status, 0 when no response was received
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a client-side validation error. These never leave the
// process as requests.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Transport wraps a network-level failure with a connectivity-specific message.
func Transport(message string, err error) *Error {
	return &Error{Kind: KindTransport, Message: message, Err: err}
}

// FromStatus maps a non-2xx HTTP response to an Error. serverMsg, when
// non-empty, takes priority over the generic message for the status class.
func FromStatus(status int, serverMsg string) *Error {
	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		e.Message = "please log in to continue"
	case status == http.StatusRequestEntityTooLarge:
		e.Kind = KindPayload
		e.Message = "the uploaded file is too large"
	case status == http.StatusBadRequest:
		e.Kind = KindPayload
		e.Message = "the request was rejected by the server"
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "not found"
	case status >= 500:
		e.Kind = KindServer
		e.Message = "server error, try again later"
	default:
		e.Kind = KindUnknown
		e.Message = fmt.Sprintf("unexpected response (HTTP %d)", status)
	}
	if serverMsg != "" && e.Kind != KindUnauthorized {
		e.Message = serverMsg
	}
	return e
}

// KindOf extracts the Kind from any error chain. Unwrapped errors report
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the display message for any error chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
