package model

import "errors"

// ErrorKind is the machine-checkable classification carried by every failure
// the usecases return. Handlers map kinds to HTTP statuses.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindAuthentication    ErrorKind = "AUTHENTICATION"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindSelfFollow        ErrorKind = "SELF_FOLLOW"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindNotReady          ErrorKind = "NOT_READY"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindConsistency       ErrorKind = "CONSISTENCY"
	KindStorage           ErrorKind = "STORAGE"
	KindInternal          ErrorKind = "INTERNAL"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.cause }

func newError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func NewValidationError(message string) *AppError     { return newError(KindValidation, message) }
func NewAuthenticationError(message string) *AppError { return newError(KindAuthentication, message) }
func NewForbiddenError(message string) *AppError      { return newError(KindForbidden, message) }
func NewSelfFollowError(message string) *AppError     { return newError(KindSelfFollow, message) }
func NewNotFoundError(message string) *AppError       { return newError(KindNotFound, message) }
func NewNotReadyError(message string) *AppError       { return newError(KindNotReady, message) }
func NewInvalidTransitionError(message string) *AppError {
	return newError(KindInvalidTransition, message)
}
func NewConsistencyError(message string) *AppError { return newError(KindConsistency, message) }

func NewStorageError(message string, cause error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, cause: cause}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the classification from err, falling back to KindInternal
// for anything unanticipated so no storage detail leaks to clients.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }
