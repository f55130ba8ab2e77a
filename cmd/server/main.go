package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/mobileauth/go-otp-server/auth"
	"github.com/mobileauth/go-otp-server/internal/config"
	"github.com/mobileauth/go-otp-server/internal/postgres"
	"github.com/mobileauth/go-otp-server/server"
	"github.com/mobileauth/go-otp-server/sms"
	"github.com/mobileauth/go-otp-server/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, c.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("postgres.Connect: %w", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("postgres.EnsureSchema: %w", err)
	}

	tokens := token.New(
		token.NewHMACSigner(c.GetAccessTokenSecret()),
		token.NewHMACSigner(c.GetRefreshTokenSecret()),
		token.WithTokenExpiry(c.GetAccessTokenTTL(), c.GetRefreshTokenTTL()),
	)

	userRepo := postgres.NewUserRepo(pool)
	authService, err := auth.NewService(
		auth.Repos{Users: userRepo, OTPs: postgres.NewOTPRepo(pool)},
		tokens,
		sms.NewLogSender(),
		auth.WithOTPExpiry(c.GetOTPTTL()),
		auth.WithCodeExposure(c.ExposeOTPCode()),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	srv, err := server.New(c, authService, userRepo)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
