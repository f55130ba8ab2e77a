package auth

import (
	"context"
	"time"

	"github.com/mobileauth/go-otp-server/otp"
	"github.com/mobileauth/go-otp-server/sms"
	"github.com/mobileauth/go-otp-server/token"
	"github.com/mobileauth/go-otp-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultOTPExpiry = 2 * time.Minute

const (
	otpSentMessage  = "OTP sent successfully"
	loggedInMessage = "Logged in successfully"
)

// Repos holds the repository dependencies for the Service
type Repos struct {
	Users users.UserRepo // Repository for user data
	OTPs  otp.Repo       // Repository for OTP records
}

// Service owns the OTP lifecycle: issuing codes bound to a user, verifying
// them, and minting the access/refresh token pair on success.
type Service struct {
	repos      Repos
	registry   *users.Registry  // Resolves mobile numbers to user records
	tokens     *token.Manager   // Mints and verifies token pairs
	sender     sms.Sender       // Out-of-band code delivery
	otpExpiry  time.Duration    // How long an issued code stays live
	exposeCode bool             // Return the code in the response instead of dispatching it
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithOTPExpiry overrides the default 2 minute code lifetime
func WithOTPExpiry(expiry time.Duration) ServiceOption {
	return func(s *Service) {
		s.otpExpiry = expiry
	}
}

// WithCodeExposure returns issued codes in the response payload rather than
// sending them through the SMS sender. Development mode only; never enable
// this in a real deployment.
func WithCodeExposure(expose bool) ServiceOption {
	return func(s *Service) {
		s.exposeCode = expose
	}
}

// NewService initializes a new Service with required dependencies.
// Optional configuration can be provided via options (e.g., WithNowTime for testing).
func NewService(repos Repos, tokens *token.Manager, sender sms.Sender, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.OTPs == nil {
		return nil, errors.New("[NewService] OTPs repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if sender == nil {
		return nil, errors.New("[NewService] sms sender is required")
	}

	registry, err := users.NewRegistry(repos.Users)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] NewRegistry")
	}

	service := &Service{
		repos:     repos,
		registry:  registry,
		tokens:    tokens,
		sender:    sender,
		otpExpiry: defaultOTPExpiry,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// SendOTPResult is the success payload of SendOTP. Code is only populated
// when code exposure is enabled.
type SendOTPResult struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CheckOTPResult is the success payload of CheckOTP.
type CheckOTPResult struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SendOTP issues a verification code for the mobile number, creating the
// user record on first contact. A still-live code for the user fails with
// OTPNotExpiredErr and leaves the stored code untouched.
func (s *Service) SendOTP(ctx context.Context, mobile string) (*SendOTPResult, error) {
	user, err := s.registry.EnsureUser(ctx, mobile)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SendOTP] EnsureUser")
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SendOTP] GenerateCode")
	}

	now := s.nowTime()
	record, err := s.repos.OTPs.Replace(ctx, user.ID, code, now.Add(s.otpExpiry), now)
	if err != nil {
		if errors.Is(err, otp.ErrNotExpired) {
			return nil, OTPNotExpiredErr
		}
		return nil, errors.Wrap(err, "[Service.SendOTP] Replace")
	}

	if err := s.repos.Users.SetOTPRef(ctx, user.ID, record.ID); err != nil {
		return nil, errors.Wrap(err, "[Service.SendOTP] SetOTPRef")
	}

	if s.exposeCode {
		return &SendOTPResult{Message: otpSentMessage, Code: code}, nil
	}

	if err := s.sender.SendCode(ctx, mobile, code); err != nil {
		return nil, errors.Wrap(err, "[Service.SendOTP] SendCode")
	}
	return &SendOTPResult{Message: otpSentMessage}, nil
}

// CheckOTP validates a submitted code, marks the user's mobile verified on
// first success, and mints the token pair.
func (s *Service) CheckOTP(ctx context.Context, mobile, code string) (*CheckOTPResult, error) {
	user, err := s.repos.Users.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, UserNotFoundErr
		}
		return nil, errors.Wrap(err, "[Service.CheckOTP] GetByMobile")
	}

	record, err := s.repos.OTPs.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return nil, InvalidCodeErr
		}
		return nil, errors.Wrap(err, "[Service.CheckOTP] GetByUserID")
	}

	if record.Code != code {
		return nil, InvalidCodeErr
	}

	if !record.Live(s.nowTime()) {
		return nil, CodeExpiredErr
	}

	if !user.MobileVerified {
		if err := s.repos.Users.SetVerified(ctx, user.Mobile, true); err != nil {
			return nil, errors.Wrap(err, "[Service.CheckOTP] SetVerified")
		}
	}

	pair, err := s.tokens.MintPair(user.ID, user.Mobile)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.CheckOTP] MintPair")
	}

	return &CheckOTPResult{
		Message:      loggedInMessage,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// UserFromToken verifies an access token and resolves the authenticated
// user. Every failure, including an unknown user, surfaces as
// token.UnauthenticatedErr.
func (s *Service) UserFromToken(ctx context.Context, rawToken string) (*users.User, error) {
	claims, err := s.tokens.ValidateAccessToken(rawToken)
	if err != nil {
		return nil, token.UnauthenticatedErr
	}

	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		log.Debug().Int64("user_id", claims.UserID).Err(err).Msg("token subject not found")
		return nil, token.UnauthenticatedErr
	}
	return user, nil
}

// SignupInput carries the profile fields a user can attach to their record.
type SignupInput struct {
	FirstName string
	LastName  string
	Mobile    string
	Password  string
}

// Signup fills in the profile of the mobile's user record, creating the
// record when the mobile is unseen. The password is stored bcrypt-hashed.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*users.User, error) {
	user, err := s.registry.EnsureUser(ctx, in.Mobile)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] EnsureUser")
	}

	hash, err := users.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] HashPassword")
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PasswordHash = hash
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] Update")
	}
	return user, nil
}
