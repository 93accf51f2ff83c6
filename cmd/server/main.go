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
	"github.com/jrsteele09/go-factcheck-chat/auth"
	"github.com/jrsteele09/go-factcheck-chat/chat"
	"github.com/jrsteele09/go-factcheck-chat/conversations"
	"github.com/jrsteele09/go-factcheck-chat/factcheck"
	"github.com/jrsteele09/go-factcheck-chat/internal/config"
	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/jrsteele09/go-factcheck-chat/server"
	"github.com/jrsteele09/go-factcheck-chat/sessions"
	"github.com/jrsteele09/go-factcheck-chat/storage"
	"github.com/jrsteele09/go-factcheck-chat/token"
	"github.com/jrsteele09/go-factcheck-chat/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.Load()
	setupLogging(c.GetEnv())

	if err := c.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Refusing to start")
	}
	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	connector := storage.NewConnector(
		storage.PostgresOpener(c.GetDatabaseURL(), c.GetDBMaxOpenConns()),
		storage.WithConnectTimeout(c.GetDBConnectTimeout()),
	)
	defer func() {
		if err := connector.Close(); err != nil {
			log.Err(err).Msg("Closing database")
		}
	}()

	handler, err := buildServer(c, connector)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func buildServer(c config.Config, connector *storage.Connector) (*server.Server, error) {
	codec, err := token.NewCodec(c.GetJWTSecret())
	if err != nil {
		return nil, apperrors.Wrapf(err, "token codec")
	}

	collaborator, err := newCollaborator(c)
	if err != nil {
		return nil, apperrors.Wrapf(err, "fact-check collaborator")
	}

	authService, err := auth.NewService(users.NewPostgresRepo(connector), codec)
	if err != nil {
		return nil, err
	}

	chatService, err := chat.NewService(collaborator, conversations.NewPostgresRepo(connector),
		chat.WithTimeout(c.GetCollaboratorTimeout()),
		chat.WithHistoryLimit(c.GetHistoryLimit()),
	)
	if err != nil {
		return nil, err
	}

	guard := sessions.NewGuard(codec,
		sessions.WithMaxAge(c.GetSessionMaxAge()),
		sessions.WithSecureCookies(c.GetSecureCookies()),
	)

	return server.New(c, server.Services{
		Auth:  authService,
		Chat:  chatService,
		Guard: guard,
	})
}

func newCollaborator(c config.Config) (factcheck.Collaborator, error) {
	switch c.GetCollaborator() {
	case config.CollaboratorGenAI:
		log.Info().Str("model", c.GetGeminiModel()).Msg("Using Gemini fact-check collaborator")
		return factcheck.DialGenAI(context.Background(), c.GetGeminiAPIKey(), c.GetGeminiModel())
	default:
		log.Info().Msg("Using webhook fact-check collaborator")
		return factcheck.NewWebhookClient(c.GetWebhookURL()), nil
	}
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
