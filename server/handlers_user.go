package server

import (
	"net/http"
	"strconv"

	"github.com/mobileauth/go-otp-server/auth"
	"github.com/mobileauth/go-otp-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ProfileHandler returns the authenticated user's own record.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "login on your account")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if violations := auth.Validate(auth.MobileRule("mobile", req.Mobile)); violations != nil {
			writeViolations(w, violations)
			return
		}

		user, err := s.users.Create(r.Context(), &users.User{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Mobile:    auth.NormalizeMobile(req.Mobile),
		})
		if err != nil {
			if errors.Is(err, users.ErrDuplicateMobile) {
				writeError(w, http.StatusConflict, users.ErrDuplicateMobile.Error())
				return
			}
			log.Error().Err(err).Msg("create user failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		list, err := s.users.List(r.Context(), offset, limit)
		if err != nil {
			log.Error().Err(err).Msg("list users failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		user, err := s.users.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, users.ErrNotFound.Error())
				return
			}
			log.Error().Err(err).Msg("get user failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

type updateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req updateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := s.users.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, users.ErrNotFound.Error())
				return
			}
			log.Error().Err(err).Msg("update user failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}

		if err := s.users.Update(r.Context(), user); err != nil {
			log.Error().Err(err).Msg("update user failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.users.Delete(r.Context(), id); err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, users.ErrNotFound.Error())
				return
			}
			log.Error().Err(err).Msg("delete user failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "user removed"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}
