// Package errs contains the error kinds surfaced by the passkey service.
package errs

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	// KindInvalidRequest covers malformed input, missing or expired
	// challenges and policy rejections.
	KindInvalidRequest Kind = iota
	// KindNotFound covers unknown credentials and unknown owners.
	KindNotFound
	// KindUnauthorized covers assertions that were presented but rejected
	// by cryptographic verification.
	KindUnauthorized
)

// Error carries a user-safe message and a trace id. The wrapped cause is
// for logs only and is never serialized into a response.
type Error struct {
	Kind    Kind
	Message string
	TraceID string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidRequest(message, traceID string, cause error) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message, TraceID: traceID, Err: cause}
}

func NotFound(message, traceID string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, TraceID: traceID, Err: cause}
}

func Unauthorized(message, traceID string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, TraceID: traceID, Err: cause}
}

// HTTPStatus maps an error to the fiber status code controllers respond with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidRequest:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// AsError extracts a typed *Error, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
