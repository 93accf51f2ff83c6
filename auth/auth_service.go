// Package auth registers users and logs them in, issuing a session token for
// each success.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/jrsteele09/go-factcheck-chat/users"
	"github.com/rs/zerolog/log"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type Service struct {
	users   users.Repo
	tokens  TokenIssuer
	nowTime func() time.Time // injectable for testing
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(userRepo users.Repo, tokens TokenIssuer, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token issuer is required")
	}

	s := &Service{
		users:   userRepo,
		tokens:  tokens,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Signup creates an account and returns it with a fresh token.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*users.User, string, error) {
	name = strings.TrimSpace(name)
	email = users.NormaliseEmail(email)
	if err := ValidateSignup(name, email, password); err != nil {
		return nil, "", err
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, "", apperrors.Internal(err, "hash password")
	}

	now := s.nowTime().UTC()
	user := &users.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return nil, "", apperrors.Conflict("User already exists with this email")
		}
		return nil, "", apperrors.Internal(err, "create user")
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err, "issue token")
	}
	log.Info().Str("userId", user.ID).Msg("User registered")
	return user, tok, nil
}

// Login checks the credentials. An unknown email and a wrong password fail
// identically with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, string, error) {
	if err := ValidateLoginCredentials(email, password); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, users.NormaliseEmail(email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Internal(err, "look up user")
	}
	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err, "issue token")
	}
	log.Info().Str("userId", user.ID).Msg("User logged in")
	return user, tok, nil
}
