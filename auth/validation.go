package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mobileauth/go-otp-server/otp"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations collects the failures for one input object.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", violation.Field, violation.Message))
	}
	return strings.Join(msgs, "; ")
}

// Rule checks one field of an input object and reports at most one
// violation. Cross-field rules close over the sibling values they compare
// against.
type Rule func() *Violation

// Validate runs the rules in order and collects every violation. A nil
// return means the input is valid.
func Validate(rules ...Rule) Violations {
	var violations Violations
	for _, rule := range rules {
		if v := rule(); v != nil {
			violations = append(violations, *v)
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return violations
}

// Iranian mobile numbers: optional +98 or 0 prefix followed by 9 and nine digits.
var mobilePattern = regexp.MustCompile(`^(?:\+98|98|0)?9[0-9]{9}$`)

var codePattern = regexp.MustCompile(`^[0-9]+$`)

// MobileRule validates the mobile number format.
func MobileRule(field, mobile string) Rule {
	return func() *Violation {
		if !mobilePattern.MatchString(mobile) {
			return &Violation{Field: field, Message: "mobile number is invalid"}
		}
		return nil
	}
}

// CodeRule validates that a submitted OTP code is exactly the expected
// number of digits.
func CodeRule(field, code string) Rule {
	return func() *Violation {
		if len(code) != otp.CodeLength || !codePattern.MatchString(code) {
			return &Violation{Field: field, Message: "incorrect code"}
		}
		return nil
	}
}

// LengthRule validates string length bounds inclusively.
func LengthRule(field, value string, min, max int, message string) Rule {
	return func() *Violation {
		if len(value) < min || len(value) > max {
			return &Violation{Field: field, Message: message}
		}
		return nil
	}
}

// RequiredRule validates that a value is non-empty.
func RequiredRule(field, value string) Rule {
	return func() *Violation {
		if strings.TrimSpace(value) == "" {
			return &Violation{Field: field, Message: field + " is required"}
		}
		return nil
	}
}

// EqualsRule validates that two fields carry the same value, e.g. password
// and its confirmation.
func EqualsRule(field, value, other, message string) Rule {
	return func() *Violation {
		if value != other {
			return &Violation{Field: field, Message: message}
		}
		return nil
	}
}

// NormalizeMobile rewrites a valid mobile number to its canonical +98 form.
// Numbers that fail the format rule are returned unchanged.
func NormalizeMobile(mobile string) string {
	if !mobilePattern.MatchString(mobile) {
		return mobile
	}
	var digits string
	switch {
	case strings.HasPrefix(mobile, "+98"):
		digits = mobile[3:]
	case strings.HasPrefix(mobile, "98") && len(mobile) == 12:
		digits = mobile[2:]
	case strings.HasPrefix(mobile, "0"):
		digits = mobile[1:]
	default:
		digits = mobile
	}
	return "+98" + digits
}

// SendOTPRequest is the input of the send-otp operation.
type SendOTPRequest struct {
	Mobile string `json:"mobile"`
}

func (r SendOTPRequest) Validate() Violations {
	return Validate(
		MobileRule("mobile", r.Mobile),
	)
}

// CheckOTPRequest is the input of the check-otp operation.
type CheckOTPRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

func (r CheckOTPRequest) Validate() Violations {
	return Validate(
		MobileRule("mobile", r.Mobile),
		CodeRule("code", r.Code),
	)
}

// SignupRequest is the input of the signup operation.
type SignupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r SignupRequest) Validate() Violations {
	return Validate(
		RequiredRule("firstName", r.FirstName),
		RequiredRule("lastName", r.LastName),
		MobileRule("mobile", r.Mobile),
		LengthRule("password", r.Password, 6, 20, "Invalid password"),
		EqualsRule("confirm_password", r.ConfirmPassword, r.Password, "password and confirm password should be equals"),
	)
}
