package service

import (
	"errors"
	"fmt"
)

// Error is an expected domain failure with a stable code the caller can map
// to a localized user-facing message. Infrastructure failures are returned as
// ordinary wrapped errors instead.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrStudentNotFound         = &Error{Code: "student_not_found", Message: "student not found"}
	ErrTeacherNotFound         = &Error{Code: "teacher_not_found", Message: "teacher not found"}
	ErrPartyNotFound           = &Error{Code: "party_not_found", Message: "party not found"}
	ErrEmailTaken              = &Error{Code: "email_taken", Message: "email is already registered"}
	ErrInsufficientPoints      = &Error{Code: "insufficient_points", Message: "points balance is not sufficient"}
	ErrTeacherNotAvailable     = &Error{Code: "teacher_not_available", Message: "teacher is not available for new requests"}
	ErrRequestNotFound         = &Error{Code: "request_not_found", Message: "session request not found"}
	ErrNotRequestOwner         = &Error{Code: "not_request_owner", Message: "session request belongs to another teacher"}
	ErrRequestAlreadyProcessed = &Error{Code: "request_already_processed", Message: "session request was already processed"}
	ErrSessionNotFound         = &Error{Code: "session_not_found", Message: "session not found"}
	ErrNotSessionParty         = &Error{Code: "not_session_party", Message: "session belongs to other parties"}
	ErrSessionNotStartable     = &Error{Code: "session_not_startable", Message: "session is not in a startable state"}
	ErrSessionNotCancellable   = &Error{Code: "session_not_cancellable", Message: "session can no longer be cancelled"}
	ErrSessionCancelled        = &Error{Code: "session_cancelled", Message: "session was cancelled"}
	ErrPaymentNotFound         = &Error{Code: "payment_not_found", Message: "payment not found"}
	ErrUnknownLookupKind       = &Error{Code: "unknown_lookup_kind", Message: "unknown lookup kind"}
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError aggregates per-field input errors. It is reported before
// any mutation happens.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Fields[0].Field, e.Fields[0].Error)
}

// IsDomainError checks if the error is an expected domain failure
func IsDomainError(err error) bool {
	var de *Error
	var ve *ValidationError
	return errors.As(err, &de) || errors.As(err, &ve)
}
