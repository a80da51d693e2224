package person

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("person not found")
	ErrStore      = errors.New("store failure")
)

// Error carries the operation and filter that failed alongside the kind and
// the underlying cause.
type Error struct {
	Op     string
	Filter string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Filter != "" {
		msg += " (filter " + e.Filter + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StoreError wraps a failure reported by the underlying store.
func StoreError(op, filter string, err error) error {
	return &Error{Op: op, Filter: filter, Kind: ErrStore, Err: err}
}

// NotFoundError reports that op required a match for filter and found none.
func NotFoundError(op, filter string) error {
	return &Error{Op: op, Filter: filter, Kind: ErrNotFound}
}

// ValidationError reports input rejected before reaching the store.
func ValidationError(op string, err error) error {
	return &Error{Op: op, Kind: ErrValidation, Err: err}
}

// Filter renders a single key/value filter for error context.
func Filter(key string, value any) string {
	return fmt.Sprintf("{%s: %v}", key, value)
}
