package core

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes pipeline errors.
type ErrorCode string

const (
	ErrNoProvider             ErrorCode = "no_provider_available"
	ErrProvider               ErrorCode = "provider_error"
	ErrModeration             ErrorCode = "moderation_system_error"
	ErrCacheUnavailable       ErrorCode = "cache_unavailable"
	ErrEscalationNotFound     ErrorCode = "escalation_not_found"
	ErrEscalationUnauthorized ErrorCode = "escalation_unauthorized"
	ErrTimeout                ErrorCode = "timeout"
	ErrCanceled               ErrorCode = "canceled"
	ErrInternal               ErrorCode = "internal"
)

// Error carries a code plus context for pipeline consumers.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Details   map[string]any
	wrapped   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// WrapError attaches a code to an arbitrary error. Existing *Error values
// pass through unchanged so codes survive layered wrapping.
func WrapError(err error, code ErrorCode) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Code: code, Message: err.Error(), wrapped: err}
}

// NewError builds an Error explicitly.
func NewError(code ErrorCode, message string, opts ...ErrorOption) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrorOption mutates an Error during construction.
type ErrorOption func(*Error)

// WithRetryable marks whether retry is recommended.
func WithRetryable(retryable bool) ErrorOption {
	return func(e *Error) { e.Retryable = retryable }
}

// WithDetails attaches structured context.
func WithDetails(details map[string]any) ErrorOption {
	return func(e *Error) { e.Details = details }
}

// WithWrapped attaches an underlying error.
func WithWrapped(err error) ErrorOption {
	return func(e *Error) { e.wrapped = err }
}

func classify(code ErrorCode) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}
		var pe *Error
		if errors.As(err, &pe) {
			return pe.Code == code
		}
		return false
	}
}

// Predicates for common error handling patterns.
var (
	IsNoProvider             = classify(ErrNoProvider)
	IsProviderError          = classify(ErrProvider)
	IsModerationError        = classify(ErrModeration)
	IsCacheUnavailable       = classify(ErrCacheUnavailable)
	IsEscalationNotFound     = classify(ErrEscalationNotFound)
	IsEscalationUnauthorized = classify(ErrEscalationUnauthorized)
	IsTimeout                = classify(ErrTimeout)
	IsCanceled               = classify(ErrCanceled)
)
