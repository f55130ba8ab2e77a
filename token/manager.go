package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// UnauthenticatedErr is the single error surfaced for every access-token
// verification failure. Callers cannot distinguish a bad signature from an
// expired or malformed token; the underlying cause is logged instead.
var UnauthenticatedErr = errors.New("unauthenticated")

// Pair holds the short-lived access credential and the long-lived refresh
// credential minted on successful OTP verification.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the payload carried by both tokens.
type Claims struct {
	UserID int64
	Mobile string
}

type Manager struct {
	accessSigner  Signer        // Signs and verifies access tokens
	refreshSigner Signer        // Signs refresh tokens, independently keyed
	accessExpiry  time.Duration // Access token lifetime
	refreshExpiry time.Duration // Refresh token lifetime
	nowFunc       func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessExpiry, refreshExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessExpiry = accessExpiry
		m.refreshExpiry = refreshExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(accessSigner, refreshSigner Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		accessSigner:  accessSigner,
		refreshSigner: refreshSigner,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessExpiry == 0 {
		m.accessExpiry = 30 * 24 * time.Hour
	}
	if m.refreshExpiry == 0 {
		m.refreshExpiry = 365 * 24 * time.Hour
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// MintPair signs the {id, mobile} payload twice, once per signer and
// lifetime, and returns both signed strings.
func (m *Manager) MintPair(userID int64, mobile string) (*Pair, error) {
	accessToken, err := m.mint(m.accessSigner, userID, mobile, m.accessExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.MintPair] access token")
	}

	refreshToken, err := m.mint(m.refreshSigner, userID, mobile, m.refreshExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.MintPair] refresh token")
	}

	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (m *Manager) mint(signer Signer, userID int64, mobile string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":     userID,
		"mobile": mobile,
		"iat":    int64(m.nowFunc().Unix()),
		"exp":    int64(m.nowFunc().Add(expiry).Unix()),
		"jti":    uuid.New().String(),
	}
	return signer.Sign(claims)
}

// ValidateAccessToken verifies signature and expiry with the access-token
// signer and extracts the payload. Every failure mode collapses into
// UnauthenticatedErr; the specific cause is only logged at debug level.
func (m *Manager) ValidateAccessToken(rawToken string) (*Claims, error) {
	parsed, err := jwt.Parse(rawToken, m.accessSigner.GetVerificationKey,
		jwt.WithTimeFunc(m.nowFunc), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		log.Debug().Err(err).Msg("access token verification failed")
		return nil, UnauthenticatedErr
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		log.Debug().Msg("access token claims are not a claims map")
		return nil, UnauthenticatedErr
	}

	id, ok := mapClaims["id"].(float64)
	if !ok {
		log.Debug().Msg("access token missing id claim")
		return nil, UnauthenticatedErr
	}
	mobile, _ := mapClaims["mobile"].(string)

	return &Claims{
		UserID: int64(id),
		Mobile: mobile,
	}, nil
}
