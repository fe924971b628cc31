package caixa

import "errors"

// Error kinds returned by Book operations. Callers match them with
// [errors.Is]; every operation fails with exactly one of these or succeeds.
// Infrastructure faults from the Store are passed through untouched, except
// during consolidation where they surface as ErrTillUnavailable.
var (
	// ErrInvalidAmount rejects a zero or negative movement amount, or a
	// negative float/count.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownTill rejects a till number outside the configured range.
	ErrUnknownTill = errors.New("unknown till")

	// ErrTillClosed rejects register mutations on a closed till-day.
	ErrTillClosed = errors.New("till is closed")

	// ErrAlreadyClosed rejects a second close of the same till-day.
	ErrAlreadyClosed = errors.New("till already closed")

	// ErrMachineCountRequired rejects closing a till before its machine
	// count has been set.
	ErrMachineCountRequired = errors.New("machine count required before closing")

	// ErrWrongConfirmation rejects a void whose confirmation phrase does
	// not match the configured one.
	ErrWrongConfirmation = errors.New("wrong confirmation phrase")

	// ErrNotFound reports a missing movement, or one that is already
	// voided. Voiding twice is an error on purpose so that callers can
	// detect double submissions.
	ErrNotFound = errors.New("movement not found")

	// ErrTillUnavailable wraps a Store failure met while consolidating.
	ErrTillUnavailable = errors.New("till unavailable")
)
