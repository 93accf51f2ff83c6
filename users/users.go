package users

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds accepted at signup. bcrypt rejects anything longer
// than MaxPasswordLength bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes long", MaxPasswordLength)
)

type User struct {
	ID           string    `json:"id"`        // Unique identifier for the user
	Email        string    `json:"email"`     // Lowercased, trimmed and unique
	Name         string    `json:"name"`      // Display name
	PasswordHash string    `json:"-"`         // bcrypt hash - never serialize
	CreatedAt    time.Time `json:"createdAt"` // Date and time when the user registered
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormaliseEmail is the form emails are stored and looked up in.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address parses as a bare addr-spec.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email address is not valid")
	}
	return nil
}

// ValidatePasswordStrength checks the password length is within bounds.
func ValidatePasswordStrength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
