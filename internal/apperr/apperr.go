// Package apperr carries the error taxonomy every layer below the HTTP
// boundary speaks. Repos and services return *Error values; handlers
// translate them exactly once into a status code and response envelope.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

type Error struct {
	Kind Kind
	Code string // stable machine-readable code, e.g. EMPTY_CART
	Msg  string // human message; wording is not contractual
	Err  error  // wrapped cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func Wrap(err error, kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg, Err: err}
}

func Validation(code, msg string) *Error  { return New(KindValidation, code, msg) }
func Auth(code, msg string) *Error        { return New(KindAuth, code, msg) }
func NotFound(code, msg string) *Error    { return New(KindNotFound, code, msg) }
func Conflict(code, msg string) *Error    { return New(KindConflict, code, msg) }
func Unavailable(code, msg string) *Error { return New(KindUnavailable, code, msg) }

// Internal wraps an unexpected failure; the cause stays in logs only.
func Internal(err error) *Error {
	return Wrap(err, KindInternal, "INTERNAL", "Something went wrong. Please try again.")
}

// From returns err as an *Error, wrapping unclassified errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
