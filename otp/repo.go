package otp

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a user has no OTP record.
	ErrNotFound = errors.New("otp not found")
	// ErrNotExpired is returned by Replace when the stored code is still
	// live; the existing code stays valid and no new one is issued.
	ErrNotExpired = errors.New("otp not expired")
)

type Repo interface {
	GetByUserID(ctx context.Context, userID int64) (*OTP, error)

	// Replace atomically creates the user's OTP record, or refreshes the
	// code and expiry in place when the existing record has expired at
	// now. A still-live record causes ErrNotExpired. Implementations must
	// make the existence/expiry check and the write a single atomic step.
	Replace(ctx context.Context, userID int64, code string, expiresAt, now time.Time) (*OTP, error)
}
