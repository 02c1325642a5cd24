// Package apperror is the error taxonomy shared by the service and API layers.
// Every service operation fails with exactly one of these kinds so handlers
// can map errors to responses without peeking into repository internals.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
	KindPartialFailure
)

// Reason codes carried by Forbidden and NotFound errors.
const (
	ReasonNotAMember        = "NOT_A_MEMBER"
	ReasonInsufficientRole  = "INSUFFICIENT_ROLE"
	ReasonCannotModifyOwner = "CANNOT_MODIFY_OWNER"
	ReasonParentNotFound    = "PARENT_NOT_FOUND"
	ReasonPartialDelete     = "PARTIAL_DELETE"
)

type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error

	// Populated only for KindPartialFailure: ids of descendants that were
	// removed before the cascade stopped, and ids that still remain so the
	// caller can retry idempotently.
	Deleted   []string
	Remaining []string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ParentNotFound marks a create/move whose stated parent id does not resolve.
func ParentNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Reason: ReasonParentNotFound, Message: msg}
}

func Forbidden(reason, msg string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// PartialDelete reports a cascade that stopped partway through.
func PartialDelete(msg string, deleted, remaining []string, cause error) *Error {
	return &Error{
		Kind:      KindPartialFailure,
		Reason:    ReasonPartialDelete,
		Message:   msg,
		Err:       cause,
		Deleted:   deleted,
		Remaining: remaining,
	}
}

func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Err: cause}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// ReasonOf returns the reason code of err, if any.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
