package sms

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Sender delivers a verification code to a mobile number through an
// out-of-band channel.
type Sender interface {
	SendCode(ctx context.Context, mobile, code string) error
}

// LogSender writes codes to the log instead of dispatching them. For local
// development only.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendCode(ctx context.Context, mobile, code string) error {
	log.Info().Str("mobile", mobile).Str("code", code).Msg("otp code dispatched to log sender")
	return nil
}
