package config

import "time"

type AuthConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetOTPTTL() time.Duration
	ExposeOTPCode() bool
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAccessTokenSecret() string {
	return GetEnv("ACCESS_TOKEN_SECRET", "")
}

func (Auth) GetRefreshTokenSecret() string {
	return GetEnv("REFRESH_TOKEN_SECRET", "")
}

func (Auth) GetAccessTokenTTL() time.Duration {
	return getDuration("ACCESS_TOKEN_TTL", 30*24*time.Hour)
}

func (Auth) GetRefreshTokenTTL() time.Duration {
	return getDuration("REFRESH_TOKEN_TTL", 365*24*time.Hour)
}

func (Auth) GetOTPTTL() time.Duration {
	return getDuration("OTP_TTL", 2*time.Minute)
}

// ExposeOTPCode controls whether issued codes are echoed in the send-otp
// response. Defaults to the DEV environment only; production deployments
// must deliver codes out-of-band.
func (Auth) ExposeOTPCode() bool {
	switch GetEnv("OTP_EXPOSE_CODE", "") {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return EnvVars{}.GetEnv() == "DEV"
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
