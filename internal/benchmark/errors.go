package benchmark

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else; callers are not told which.
	ErrNotFound = errors.New("benchmark result not found or not owned by caller")

	ErrInvalidDeviceType = errors.New("invalid device type")

	// ErrCorrectionNotAllowed fires when the classifier was confident
	// and the record was never corrected before.
	ErrCorrectionNotAllowed = errors.New("device type confidence too high for manual correction")
)

// QuotaExceededError reports how many verified results the user
// already holds against the limit.
type QuotaExceededError struct {
	Verified int
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user already holds %d of %d verified benchmark results", e.Verified, e.Limit)
}
