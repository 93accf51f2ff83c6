package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20

	msgUnauthorized = "Unauthorized"
	msgInternal     = "Internal server error"
	msgBadRequest   = "Invalid request body"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps an error kind onto a status and a client-safe body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrConflict):
		writeError(w, http.StatusConflict, apperrors.PublicMessage(err, "Conflict"))
	case apperrors.Is(err, apperrors.ErrValidation):
		writeError(w, http.StatusBadRequest, apperrors.PublicMessage(err, msgBadRequest))
	case apperrors.Is(err, apperrors.ErrAuthentication):
		writeError(w, http.StatusUnauthorized, apperrors.PublicMessage(err, msgUnauthorized))
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeBody reads a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}
