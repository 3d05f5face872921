package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies an AppError independently of its result code.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindTooManyRequests ErrorKind = "TOO_MANY_REQUESTS"
	KindInternal        ErrorKind = "INTERNAL_ERROR"
)

// AppError represents a custom application error.
// Code is the result code written into the response envelope (e.g. "404-1").
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status implied by the result code.
func (e *AppError) Status() int {
	if status, ok := statusFromCode(e.Code); ok {
		return status
	}
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindValidation:
		return fiber.StatusBadRequest
	case KindTooManyRequests:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewNotFoundError(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func NewUnauthenticatedError(code, message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Code: code, Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: code, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Code: "400-1", Message: message}
}

func NewTooManyRequestsError() *AppError {
	return &AppError{Kind: KindTooManyRequests, Code: "429-1", Message: "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "500-1", Message: "서버 내부 오류가 발생했습니다.", Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AsAppError converts any error into an AppError. Unknown errors become internal errors.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError writes err as a response envelope with the matching HTTP status.
// The wrapped cause of an error is never echoed to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)
	rs := NewRsData(appErr.Code, appErr.Message)
	return c.Status(appErr.Status()).JSON(rs)
}
