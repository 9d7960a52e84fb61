package gallery

import (
	"errors"

	"github.com/google/uuid"
)

// Operation names a controller operation.
type Operation int

const (
	OpRefresh Operation = iota
	OpUpload
	OpDelete
	opCount
)

func (o Operation) String() string {
	switch o {
	case OpRefresh:
		return "refresh"
	case OpUpload:
		return "upload"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Reason is the failure class of a Result.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonMissingInput Reason = "missing_input"
	ReasonInvalidInput Reason = "invalid_input"
	ReasonNotFound     Reason = "not_found"
	ReasonBusy         Reason = "busy"
	ReasonCanceled     Reason = "canceled"
	ReasonStorage      Reason = "storage"
)

// ReasonOf maps an error returned by the controller to its Reason.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMissingInput):
		return ReasonMissingInput
	case errors.Is(err, ErrInvalidInput):
		return ReasonInvalidInput
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrBusy):
		return ReasonBusy
	case errors.Is(err, ErrCanceled):
		return ReasonCanceled
	default:
		return ReasonStorage
	}
}

// Result is the outcome of Refresh, Upload or Delete.
type Result struct {
	Op  Operation
	ID  uuid.UUID
	Key string
	Err error
	// Partial is set when the mutation reached the store but the refresh
	// that follows it failed, so Objects may not show it yet.
	Partial bool
	// Superseded is set when a refresh finished after a newer one had
	// already been applied; its listing was discarded.
	Superseded bool
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Reason returns the failure class, or ReasonNone.
func (r Result) Reason() Reason { return ReasonOf(r.Err) }
