package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-factcheck-chat/internal/config"
)

type debugInfo struct {
	Timestamp      time.Time `json:"timestamp"`
	Env            string    `json:"env"`
	Collaborator   string    `json:"collaborator"`
	HasDatabaseURL bool      `json:"hasDatabaseUrl"`
	HasJWTSecret   bool      `json:"hasJwtSecret"`
	HasWebhookURL  bool      `json:"hasWebhookUrl"`
	HasGeminiKey   bool      `json:"hasGeminiKey"`
}

type debugResponse struct {
	Message string    `json:"message"`
	Debug   debugInfo `json:"debug"`
	Status  string    `json:"status"`
}

// DebugHandler reports which settings are present. Values, lengths and
// prefixes are never included.
func (s *Server) DebugHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, debugResponse{
			Message: "Debug info collected",
			Debug:   collectDebugInfo(s.config),
			Status:  "Environment check complete",
		})
	}
}

func collectDebugInfo(cfg config.Config) debugInfo {
	return debugInfo{
		Timestamp:      time.Now().UTC(),
		Env:            cfg.GetEnv(),
		Collaborator:   cfg.GetCollaborator(),
		HasDatabaseURL: cfg.GetDatabaseURL() != "",
		HasJWTSecret:   cfg.GetJWTSecret() != "",
		HasWebhookURL:  cfg.GetWebhookURL() != "",
		HasGeminiKey:   cfg.GetGeminiAPIKey() != "",
	}
}
