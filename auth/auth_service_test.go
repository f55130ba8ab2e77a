package auth_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/mobileauth/go-otp-server/auth"
	otprepofake "github.com/mobileauth/go-otp-server/otp/repofake"
	"github.com/mobileauth/go-otp-server/token"
	"github.com/mobileauth/go-otp-server/users"
	userrepofake "github.com/mobileauth/go-otp-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-1"
	refreshSecret = "refresh-secret-1"
	testMobile    = "+989120000000"
	otherMobile   = "+989350000000"
)

var codePattern = regexp.MustCompile(`^[0-9]{5}$`)

// captureSender records dispatched codes instead of sending them
type captureSender struct {
	mobiles []string
	codes   []string
}

func (c *captureSender) SendCode(ctx context.Context, mobile, code string) error {
	c.mobiles = append(c.mobiles, mobile)
	c.codes = append(c.codes, code)
	return nil
}

// testFixture holds all test dependencies
type testFixture struct {
	userRepo *userrepofake.FakeUserRepo
	otpRepo  *otprepofake.FakeOTPRepo
	tokens   *token.Manager
	sender   *captureSender
	service  *auth.Service
	now      time.Time
}

func setupTestFixture(t *testing.T, options ...auth.ServiceOption) *testFixture {
	t.Helper()

	f := &testFixture{
		userRepo: userrepofake.NewFakeUserRepo(),
		otpRepo:  otprepofake.NewFakeOTPRepo(),
		sender:   &captureSender{},
		now:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	f.tokens = token.New(
		token.NewHMACSigner(accessSecret),
		token.NewHMACSigner(refreshSecret),
		token.WithNowFunc(func() time.Time { return f.now }),
	)

	opts := append([]auth.ServiceOption{
		auth.WithNowTime(func() time.Time { return f.now }),
		auth.WithCodeExposure(true),
	}, options...)

	service, err := auth.NewService(
		auth.Repos{Users: f.userRepo, OTPs: f.otpRepo},
		f.tokens,
		f.sender,
		opts...,
	)
	require.NoError(t, err)

	f.service = service
	return f
}

func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestSendOTPCreatesUserAndRecord(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	result, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)
	require.Equal(t, "OTP sent successfully", result.Message)
	require.Regexp(t, codePattern, result.Code)

	user, err := f.userRepo.GetByMobile(ctx, testMobile)
	require.NoError(t, err)
	require.False(t, user.MobileVerified)
	require.NotNil(t, user.OTPID)

	require.Equal(t, 1, f.otpRepo.Count())
	record, err := f.otpRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, result.Code, record.Code)
	require.Equal(t, f.now.Add(2*time.Minute), record.ExpiresAt)
}

func TestSendOTPWhileCodeStillLive(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	first, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	f.advance(time.Minute)
	_, err = f.service.SendOTP(ctx, testMobile)
	require.ErrorIs(t, err, auth.OTPNotExpiredErr)

	// Stored code must be unchanged
	user, err := f.userRepo.GetByMobile(ctx, testMobile)
	require.NoError(t, err)
	record, err := f.otpRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, first.Code, record.Code)
}

func TestSendOTPAfterExpiryReplacesInPlace(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	f.advance(2*time.Minute + time.Second)
	second, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)
	require.Regexp(t, codePattern, second.Code)

	user, err := f.userRepo.GetByMobile(ctx, testMobile)
	require.NoError(t, err)
	record, err := f.otpRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, second.Code, record.Code)
	require.Equal(t, f.now.Add(2*time.Minute), record.ExpiresAt)

	// Still exactly one record per user
	require.Equal(t, 1, f.otpRepo.Count())
}

func TestSendOTPDispatchesWhenCodeNotExposed(t *testing.T) {
	f := setupTestFixture(t, auth.WithCodeExposure(false))
	ctx := context.Background()

	result, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)
	require.Equal(t, "OTP sent successfully", result.Message)
	require.Empty(t, result.Code)

	require.Len(t, f.sender.codes, 1)
	require.Equal(t, testMobile, f.sender.mobiles[0])
	require.Regexp(t, codePattern, f.sender.codes[0])
}

func TestCheckOTPSuccess(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	f.advance(time.Minute)
	result, err := f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.NoError(t, err)
	require.Equal(t, "Logged in successfully", result.Message)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	user, err := f.userRepo.GetByMobile(ctx, testMobile)
	require.NoError(t, err)
	require.True(t, user.MobileVerified)

	claims, err := f.tokens.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, testMobile, claims.Mobile)
}

func TestCheckOTPIsIdempotentOnVerification(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	_, err = f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.NoError(t, err)

	// Re-verification within the window follows the expiry rules, not a
	// consumed-code rule
	_, err = f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.NoError(t, err)

	f.advance(3 * time.Minute)
	_, err = f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.ErrorIs(t, err, auth.CodeExpiredErr)
}

func TestCheckOTPWrongCode(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	wrong := "00000"
	if sent.Code == wrong {
		wrong = "00001"
	}
	_, err = f.service.CheckOTP(ctx, testMobile, wrong)
	require.ErrorIs(t, err, auth.InvalidCodeErr)
}

func TestCheckOTPExpiredCode(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)

	f.advance(2 * time.Minute)
	_, err = f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.ErrorIs(t, err, auth.CodeExpiredErr)
}

func TestCheckOTPUnknownMobile(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.CheckOTP(context.Background(), otherMobile, "12345")
	require.ErrorIs(t, err, auth.UserNotFoundErr)
}

func TestCheckOTPWithoutAnyRecord(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.userRepo.Create(ctx, &users.User{Mobile: testMobile})
	require.NoError(t, err)

	_, err = f.service.CheckOTP(ctx, testMobile, "12345")
	require.ErrorIs(t, err, auth.InvalidCodeErr)
}

func TestUserFromToken(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendOTP(ctx, testMobile)
	require.NoError(t, err)
	result, err := f.service.CheckOTP(ctx, testMobile, sent.Code)
	require.NoError(t, err)

	user, err := f.service.UserFromToken(ctx, result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testMobile, user.Mobile)

	// A refresh token is signed with a different secret and must not
	// authenticate as an access token
	_, err = f.service.UserFromToken(ctx, result.RefreshToken)
	require.ErrorIs(t, err, token.UnauthenticatedErr)

	_, err = f.service.UserFromToken(ctx, "not-a-token")
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}

func TestSignupFillsProfile(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	user, err := f.service.Signup(ctx, auth.SignupInput{
		FirstName: "John",
		LastName:  "Doe",
		Mobile:    testMobile,
		Password:  "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, "John", user.FirstName)
	require.NotEmpty(t, user.PasswordHash)
	require.True(t, users.CheckPasswordHash("secret123", user.PasswordHash))

	// Signing up again reuses the same record
	again, err := f.service.Signup(ctx, auth.SignupInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Mobile:    testMobile,
		Password:  "secret456",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}
