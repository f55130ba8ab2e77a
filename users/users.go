package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the identity anchor. A mobile number uniquely identifies a user,
// and a user holds at most one active OTP record at a time.
type User struct {
	ID             int64     `json:"id"`                   // Unique numeric identifier
	FirstName      string    `json:"first_name,omitempty"` // Optional first name
	LastName       string    `json:"last_name,omitempty"`  // Optional last name
	Mobile         string    `json:"mobile"`               // Mobile number, unique and required
	PasswordHash   string    `json:"-"`                    // Hashed password - never serialize
	MobileVerified bool      `json:"mobile_verified"`      // Flipped true on first successful OTP check
	OTPID          *int64    `json:"-"`                    // Reference to the user's current OTP record
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
