package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"
)

// CodeLength is the fixed length of a verification code.
const CodeLength = 5

// codes are drawn uniformly from [codeMin, codeMax] inclusive
const (
	codeMin = 10000
	codeMax = 99999
)

// OTP is a one-time verification code bound to a single user. A user has
// exactly one record at a time; reissuing refreshes it in place.
type OTP struct {
	ID        int64
	UserID    int64
	Code      string
	ExpiresAt time.Time
}

// Live reports whether the code is still valid at the given time.
func (o *OTP) Live(now time.Time) bool {
	return now.Before(o.ExpiresAt)
}

// GenerateCode draws a 5-digit numeric code from [10000, 99999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", errors.Wrap(err, "[GenerateCode] rand.Int")
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
