package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalid           ErrorCode = "invalid"
	ErrorForbidden         ErrorCode = "forbidden"
	ErrorNotFound          ErrorCode = "not_found"
	ErrorConflict          ErrorCode = "conflict"
	ErrorUnauthorized      ErrorCode = "unauthorized"
	ErrorInvalidTransition ErrorCode = "invalid_transition"
	ErrorIncomplete        ErrorCode = "incomplete_submission"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewInvalidTransitionError names the submission's current status so
// the caller can explain why the operation is not allowed.
func NewInvalidTransitionError(op, status string) error {
	return &ServiceError{
		Code:    ErrorInvalidTransition,
		Message: fmt.Sprintf("%s not allowed while submission is %s", op, status),
	}
}

// NewIncompleteError names both counts so the caller can show how many
// questions remain.
func NewIncompleteError(answered, total int) error {
	return &ServiceError{
		Code:    ErrorIncomplete,
		Message: fmt.Sprintf("not all questions answered: %d of %d", answered, total),
	}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
