package mediator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a zero token or an empty message name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation is returned when a callback has no owning instance to track.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDispatchFault marks errors raised by a subscriber during dispatch.
	ErrDispatchFault = errors.New("dispatch fault")

	// ErrClosed is returned by operations on a closed mediator.
	ErrClosed = errors.New("mediator closed")
)

// DispatchError describes a subscriber failure while delivering a message.
// It is passed to the subscriber's error handler, or returned from
// Broadcast when no live error handler absorbed it.
type DispatchError struct {
	Message string
	Token   Token
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("subscriber %s failed on %q: %v", e.Token.ID(), e.Message, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDispatchFault) match any DispatchError.
func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFault
}
