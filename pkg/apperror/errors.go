// Package apperror holds the error kinds that cross package boundaries in the
// mentor core. Callers match with errors.Is against the sentinels.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrProviderDegraded = errors.New("provider degraded")
)

// Error decorates a sentinel with the failing operation and its cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func InvalidInput(op, reason string) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Err: errors.New(reason)}
}

func NotFound(op string, err error) error {
	return &Error{Kind: ErrNotFound, Op: op, Err: err}
}

func StoreUnavailable(op string, err error) error {
	return &Error{Kind: ErrStoreUnavailable, Op: op, Err: err}
}

func ProviderDegraded(op string, err error) error {
	return &Error{Kind: ErrProviderDegraded, Op: op, Err: err}
}

func IsInvalidInput(err error) bool     { return errors.Is(err, ErrInvalidInput) }
func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsStoreUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
