package contract

import (
	"errors"
	"fmt"
)

// Rejection taxonomy. Every failed operation unwraps to one of these.
var (
	ErrNotActive            = errors.New("contract is not active")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidPayment       = errors.New("invalid payment")
	ErrNotInVotingWindow    = errors.New("proposal is not in its voting window")
	ErrVotingNotConcluded   = errors.New("voting has not concluded")
	ErrProposalNotSucceeded = errors.New("proposal has not succeeded")
	ErrNothingToRedeem      = errors.New("nothing to redeem")
	ErrQuorumNotReached     = errors.New("quorum not reached")
	ErrInvalidArgument      = errors.New("invalid argument")

	ErrAlreadyInitialized = errors.New("contract already initialized")
	ErrNotInitialized     = errors.New("contract not initialized")
	ErrCorruptState       = errors.New("corrupt contract state")
)

// ErrNotEnoughFunds is a payment below the minimum proposal amount.
var ErrNotEnoughFunds = fmt.Errorf("%w: not enough funds", ErrInvalidPayment)

// Error is returned by every public operation that rejects.
type Error struct {
	Op     string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// reject builds an Error for the operation currently running.
func reject(err error, format string, args ...any) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Err: err, Detail: detail}
}

// asOpError stamps the operation name onto err.
func asOpError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			e.Op = op
		}
		return e
	}
	return &Error{Op: op, Err: err}
}
