package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error so callers can branch on it without parsing
// message text.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindCapacity         Kind = "capacity"
	KindConflict         Kind = "conflict"
	KindWorkloadExceeded Kind = "workload_exceeded"
	KindState            Kind = "state"
	KindNotFound         Kind = "not_found"
)

// ConflictKind identifies what kind of record blocks a requested window.
type ConflictKind string

const (
	ConflictVehicleStatus  ConflictKind = "vehicle_status"
	ConflictMaintenance    ConflictKind = "maintenance"
	ConflictBooking        ConflictKind = "booking"
	ConflictDriverSchedule ConflictKind = "driver_schedule"
)

// ConflictRecord is one concrete blocking record: what it is, when it
// applies, and a human-readable reason.
type ConflictRecord struct {
	Kind   ConflictKind `json:"kind"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Reason string       `json:"reason"`
}

// Error is the service error type. Kind drives machine handling, Message is
// for humans. Conflict errors carry the blocking records and, where built,
// an alternative-suggestion payload in Details.
type Error struct {
	Kind      Kind
	Message   string
	Conflicts []ConflictRecord
	Details   any
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

func Capacity(format string, args ...any) *Error {
	return Newf(KindCapacity, format, args...)
}

func State(format string, args ...any) *Error {
	return Newf(KindState, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return Newf(KindNotFound, format, args...)
}

func WorkloadExceeded(format string, args ...any) *Error {
	return Newf(KindWorkloadExceeded, format, args...)
}

// Conflict builds a conflict error carrying the blocking records.
func Conflict(message string, conflicts []ConflictRecord) *Error {
	return &Error{Kind: KindConflict, Message: message, Conflicts: conflicts}
}

// WithDetails attaches a structured payload (e.g. a suggestion bundle).
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As unwraps err into *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
