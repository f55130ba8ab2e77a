package auth

import "errors"

var (
	UserNotFoundErr  = errors.New("user was not found")
	InvalidCodeErr   = errors.New("invalid OTP code")
	CodeExpiredErr   = errors.New("this code has been expired")
	OTPNotExpiredErr = errors.New("OTP code not expired")
)
