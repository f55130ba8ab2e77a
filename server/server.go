package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mobileauth/go-otp-server/auth"
	"github.com/mobileauth/go-otp-server/internal/config"
	"github.com/mobileauth/go-otp-server/users"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env            string // Environment (e.g., "DEV", "production")
	mux            *http.ServeMux
	routes         []string
	config         config.Config
	auth           *auth.Service
	users          users.UserRepo
	requestTimeout time.Duration
}

func New(cfg config.Config, authService *auth.Service, userRepo users.UserRepo) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("[Server New] user repo is required")
	}

	timeout, err := time.ParseDuration(cfg.GetRequestTimeout())
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid request timeout: %w", err)
	}

	s := &Server{
		mux:            http.NewServeMux(),
		config:         cfg,
		auth:           authService,
		users:          userRepo,
		env:            cfg.GetEnv(),
		requestTimeout: timeout,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Info().Str("path", parts[0]).Msg("route registered")
		}
	}
}
