package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	envVar          = "ENV"
	jwtSecretVar    = "JWT_SECRET"
	databaseURLVar  = "DATABASE_URL"
	collaboratorVar = "COLLABORATOR"
	webhookURLVar   = "FACTCHECK_WEBHOOK_URL"
	geminiAPIKeyVar = "GEMINI_API_KEY"
	geminiModelVar  = "GEMINI_MODEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Fact Check Chat")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

// GetJWTSecret has no default on purpose, see Validate.
func (EnvVars) GetJWTSecret() string {
	return os.Getenv(jwtSecretVar)
}

func (EnvVars) GetDatabaseURL() string {
	return os.Getenv(databaseURLVar)
}

// GetCollaborator selects the external fact-check service: "webhook" or "genai".
func (EnvVars) GetCollaborator() string {
	return strings.ToLower(GetEnv(collaboratorVar, CollaboratorWebhook))
}

func (EnvVars) GetWebhookURL() string {
	return os.Getenv(webhookURLVar)
}

func (EnvVars) GetGeminiAPIKey() string {
	return os.Getenv(geminiAPIKeyVar)
}

func (EnvVars) GetGeminiModel() string {
	return GetEnv(geminiModelVar, "gemini-2.5-flash")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
