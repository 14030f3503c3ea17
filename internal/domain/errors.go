package domain

import "fmt"

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindConflict         ErrorKind = "conflict"
	KindPayloadTooLarge  ErrorKind = "payload_too_large"
	KindUnsupportedMedia ErrorKind = "unsupported_media"
	KindUnavailable      ErrorKind = "unavailable"
)

// Error is a typed domain error carrying a caller-safe message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewValidationError signals malformed or missing input.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFoundError signals an absent resource. Ownership failures and
// soft-deleted records collapse into the same error so callers cannot
// probe for records they do not own.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewForbiddenError signals an authenticated but unauthorized action.
func NewForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NewConflictError signals a concurrent-modification conflict.
func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NewPayloadTooLargeError signals an upload over the size ceiling.
func NewPayloadTooLargeError(msg string) *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: msg}
}

// NewUnsupportedMediaError signals a file type outside the allow-list.
func NewUnsupportedMediaError(msg string) *Error {
	return &Error{Kind: KindUnsupportedMedia, Message: msg}
}

// NewUnavailableError signals a failed call to an external store.
func NewUnavailableError(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}
