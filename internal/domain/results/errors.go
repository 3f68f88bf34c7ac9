package results

import "errors"

var (
	// ErrNotFound is returned when a result id does not exist.
	ErrNotFound = errors.New("result not found")

	// ErrInvalidInput marks a request rejected by validation, as opposed to
	// a storage failure. Handlers map it to 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolvedCritical blocks release while critical flags stand.
	// It is checked before ErrNotVerified, so a result that is both
	// unverified and critically flagged reports this error.
	ErrUnresolvedCritical = errors.New("cannot release result with unresolved critical flags")

	// ErrNotVerified blocks release of a result that has not been verified.
	ErrNotVerified = errors.New("result must be verified before release")
)
