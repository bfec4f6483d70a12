// Package model contains domain models passed between layers.
package model

import (
	"github.com/goccy/go-json"
)

// Status values carried by status objects.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Kind tags the variant held by a Result.
type Kind int

const (
	// KindRows holds an ordered row sequence, possibly empty.
	KindRows Kind = iota
	// KindAck means the call ran and produced nothing to return.
	KindAck
	// KindError means the store reported a failure.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindAck:
		return "ack"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Row maps column names to values as returned by the store.
type Row map[string]any

// Result is the outcome of a single data-access call. Exactly one variant is
// set; callers switch on Kind instead of probing for a "status" key.
type Result struct {
	Kind    Kind
	Rows    []Row
	Message string
}

// Rows wraps a row sequence. A nil slice is normalised to an empty one.
func Rows(rows []Row) Result {
	if rows == nil {
		rows = []Row{}
	}
	return Result{Kind: KindRows, Rows: rows}
}

// Ack reports success with nothing to return.
func Ack() Result {
	return Result{Kind: KindAck}
}

// Failure wraps a store error message.
func Failure(message string) Result {
	return Result{Kind: KindError, Message: message}
}

// IsError reports whether r is a Failure.
func (r Result) IsError() bool { return r.Kind == KindError }

// Status is the JSON status object used for acks, failures and synthesised replies.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Success builds a success status object with an optional message.
func Success(message string) Status {
	return Status{Status: StatusSuccess, Message: message}
}

// Error builds an error status object.
func Error(message string) Status {
	return Status{Status: StatusError, Message: message}
}

// Payload returns the value serialised for r: the row slice for KindRows,
// otherwise a Status.
func (r Result) Payload() any {
	switch r.Kind {
	case KindRows:
		if r.Rows == nil {
			return []Row{}
		}
		return r.Rows
	case KindError:
		return Error(r.Message)
	default:
		return Success("")
	}
}

// MarshalJSON renders rows as an array and the other variants as status objects.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}
