package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-factcheck-chat/auth"
	"github.com/jrsteele09/go-factcheck-chat/chat"
	"github.com/jrsteele09/go-factcheck-chat/internal/config"
	"github.com/jrsteele09/go-factcheck-chat/sessions"
	"github.com/rs/zerolog/log"
)

// Services holds everything the handlers delegate to.
type Services struct {
	Auth  *auth.Service
	Chat  *chat.Service
	Guard *sessions.Guard
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.Service
	chat   *chat.Service
	guard  *sessions.Guard
}

func New(config config.Config, services Services) (*Server, error) {
	if services.Auth == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if services.Chat == nil {
		return nil, errors.New("[Server New] chat service is required")
	}
	if services.Guard == nil {
		return nil, errors.New("[Server New] session guard is required")
	}

	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		auth:   services.Auth,
		chat:   services.Chat,
		guard:  services.Guard,
	}

	s.initRoutes()
	s.logRoutes()
	log.Info().Str("allowedOrigins", config.GetAllowedOrigins().String()).Msg("CORS configured")

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
