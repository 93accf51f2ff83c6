package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-factcheck-chat/users"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userSummary is the public view of a user; it never carries the hash.
type userSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
	Token   string      `json:"token"`
}

type sessionUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type authStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

func summarise(u *users.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// LoginHandler exchanges credentials for a session cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, tok, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		s.guard.SetCookie(w, r, tok)
		writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: summarise(user), Token: tok})
	}
}

// SignupHandler registers a user and logs them straight in.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, tok, err := s.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		s.guard.SetCookie(w, r, tok)
		writeJSON(w, http.StatusCreated, authResponse{Message: "User created successfully", User: summarise(user), Token: tok})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.guard.ClearCookie(w, r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
	}
}

// AuthStatusHandler reports whether the cookie carries a valid session. It
// always answers 200.
func (s *Server) AuthStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.guard.Authenticate(r)
		if !ok {
			writeJSON(w, http.StatusOK, authStatusResponse{Authenticated: false})
			return
		}
		writeJSON(w, http.StatusOK, authStatusResponse{
			Authenticated: true,
			User:          &sessionUser{UserID: claims.UserID, Email: claims.Email},
		})
	}
}
