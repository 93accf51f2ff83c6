package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	CollaboratorWebhook = "webhook"
	CollaboratorGenAI   = "genai"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	ChatConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetJWTSecret() string
	GetDatabaseURL() string
	GetCollaborator() string
	GetWebhookURL() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Chat
}

func New() Config {
	return mainConfig{}
}

// Load reads optional .env files into the process environment before
// returning the config. Variables already set in the environment win. A
// missing file is skipped silently; one that cannot be parsed is logged.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", file).Msg("Ignoring unreadable env file")
		}
	}
	return New()
}

// Validate reports a configuration error for every required value that is
// missing. There are no fallbacks for secrets.
func (c mainConfig) Validate() error {
	if c.GetJWTSecret() == "" {
		return apperrors.Configuration(jwtSecretVar + " is required")
	}
	if c.GetDatabaseURL() == "" {
		return apperrors.Configuration(databaseURLVar + " is required")
	}
	switch c.GetCollaborator() {
	case CollaboratorWebhook:
		if c.GetWebhookURL() == "" {
			return apperrors.Configuration(webhookURLVar + " is required for the webhook collaborator")
		}
	case CollaboratorGenAI:
		if c.GetGeminiAPIKey() == "" {
			return apperrors.Configuration(geminiAPIKeyVar + " is required for the genai collaborator")
		}
	default:
		return apperrors.Configuration("unknown " + collaboratorVar + ": " + c.GetCollaborator())
	}
	return nil
}
