package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repo lookups when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateMobile is returned when a create collides with the
	// unique constraint on the mobile number.
	ErrDuplicateMobile = errors.New("mobile already registered")
)

type UserRepo interface {
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByMobile(ctx context.Context, mobile string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	SetVerified(ctx context.Context, mobile string, verified bool) error
	SetOTPRef(ctx context.Context, userID, otpID int64) error
}
