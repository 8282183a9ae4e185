// Package errs defines the error kinds surfaced by the content editing
// protocol. Every error carries one kind sentinel and can be classified with
// errors.Is.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrTransport  = errors.New("transport failure")
	ErrValidation = errors.New("validation failed")
)

// Error is a classified failure. Op names the operation ("read data/blogs.json"),
// Status is the remote HTTP status when one was received.
type Error struct {
	Kind   error
	Op     string
	Msg    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op, msg string, cause error) error {
	return pkgerrors.WithStack(&Error{Kind: kind, Op: op, Msg: msg, Err: cause})
}

func Auth(op, msg string) error { return newError(ErrAuth, op, msg, nil) }

func NotFound(op, msg string) error { return newError(ErrNotFound, op, msg, nil) }

func Conflict(op, msg string) error { return newError(ErrConflict, op, msg, nil) }

func Validation(op, msg string) error { return newError(ErrValidation, op, msg, nil) }

// Transport wraps a network or decoding failure.
func Transport(op string, cause error) error { return newError(ErrTransport, op, "", cause) }

// FromStatus classifies a non-2xx response from the remote store. msg is the
// store's own error message when it sent one.
func FromStatus(op string, status int, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("remote returned %d", status)
	}

	var kind error
	switch status {
	case http.StatusUnauthorized:
		kind = ErrAuth
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		kind = ErrConflict
	default:
		kind = ErrTransport
	}
	return pkgerrors.WithStack(&Error{Kind: kind, Op: op, Msg: msg, Status: status})
}

// RemoteStatus returns the status code of the remote response behind err, or
// 0 when err did not come from a response.
func RemoteStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// HTTPStatus maps an error kind onto the status the dashboard API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the short name of err's kind for logs and JSON bodies.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}
