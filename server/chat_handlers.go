package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-factcheck-chat/conversations"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	MessageID       string                 `json:"messageId"`
	Response        string                 `json:"response"`
	IsFactChecked   bool                   `json:"isFactChecked"`
	FactCheckResult *conversations.Verdict `json:"factCheckResult,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
	Warning         string                 `json:"warning,omitempty"`
}

type messageView struct {
	ID              string                 `json:"id"`
	Message         string                 `json:"message"`
	Response        string                 `json:"response"`
	IsFactChecked   bool                   `json:"isFactChecked"`
	FactCheckResult *conversations.Verdict `json:"factCheckResult,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
}

type messagesResponse struct {
	Messages []messageView `json:"messages"`
}

// ChatHandler sends the caller's claim for checking. A failing collaborator
// still yields 200, with a warning.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		var req chatRequest
		if !decodeBody(w, r, &req) {
			return
		}

		outcome, err := s.chat.Send(r.Context(), claims.UserID, req.Message)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		turn := outcome.Turn
		writeJSON(w, http.StatusOK, chatResponse{
			MessageID:       turn.ID,
			Response:        turn.Response,
			IsFactChecked:   turn.IsFactChecked,
			FactCheckResult: turn.FactCheckResult,
			Timestamp:       turn.CreatedAt,
			Warning:         outcome.Warning,
		})
	}
}

// PreflightHandler answers OPTIONS requests that carry no Origin.
// CorsMiddleware answers the rest.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
	}
}

// MessagesHandler lists the caller's history, oldest first.
func (s *Server) MessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		turns, err := s.chat.History(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		views := make([]messageView, 0, len(turns))
		for _, t := range turns {
			views = append(views, messageView{
				ID:              t.ID,
				Message:         t.Message,
				Response:        t.Response,
				IsFactChecked:   t.IsFactChecked,
				FactCheckResult: t.FactCheckResult,
				Timestamp:       t.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, messagesResponse{Messages: views})
	}
}
