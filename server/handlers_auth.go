package server

import (
	"net/http"

	"github.com/mobileauth/go-otp-server/auth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SendOTPHandler issues a verification code for a mobile number.
func (s *Server) SendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SendOTPRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if violations := req.Validate(); violations != nil {
			writeViolations(w, violations)
			return
		}

		result, err := s.auth.SendOTP(r.Context(), auth.NormalizeMobile(req.Mobile))
		if err != nil {
			if errors.Is(err, auth.OTPNotExpiredErr) {
				writeError(w, http.StatusBadRequest, auth.OTPNotExpiredErr.Error())
				return
			}
			log.Error().Err(err).Msg("send-otp failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// CheckOTPHandler verifies a submitted code and returns the token pair.
func (s *Server) CheckOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.CheckOTPRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if violations := req.Validate(); violations != nil {
			writeViolations(w, violations)
			return
		}

		result, err := s.auth.CheckOTP(r.Context(), auth.NormalizeMobile(req.Mobile), req.Code)
		if err != nil {
			switch {
			case errors.Is(err, auth.UserNotFoundErr),
				errors.Is(err, auth.InvalidCodeErr),
				errors.Is(err, auth.CodeExpiredErr):
				writeError(w, http.StatusUnauthorized, err.Error())
			default:
				log.Error().Err(err).Msg("check-otp failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// SignupHandler attaches profile fields and a password to the mobile's user
// record.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SignupRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if violations := req.Validate(); violations != nil {
			writeViolations(w, violations)
			return
		}

		user, err := s.auth.Signup(r.Context(), auth.SignupInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Mobile:    auth.NormalizeMobile(req.Mobile),
			Password:  req.Password,
		})
		if err != nil {
			log.Error().Err(err).Msg("signup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}
