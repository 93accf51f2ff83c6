package auth

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/jrsteele09/go-factcheck-chat/users"
)

// ValidateLoginCredentials checks both credentials are present.
func ValidateLoginCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperrors.Validation("Email and password are required")
	}
	return nil
}

// ValidateSignup checks the registration form. email must already be
// normalised.
func ValidateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return apperrors.Validation("Name, email and password are required")
	}
	if err := users.ValidateEmail(email); err != nil {
		return apperrors.Validation("Please enter a valid email")
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		if errors.Is(err, users.ErrPasswordTooLong) {
			return apperrors.Validation(fmt.Sprintf("Password must be at most %d bytes long", users.MaxPasswordLength))
		}
		return apperrors.Validation(fmt.Sprintf("Password must be at least %d characters long", users.MinPasswordLength))
	}
	return nil
}
