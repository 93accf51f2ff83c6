// Package factcheck talks to the external service that judges a claim.
package factcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"google.golang.org/genai"
)

// Collaborator returns the decoded JSON reply for a claim.
type Collaborator interface {
	FactCheck(ctx context.Context, claim string) (any, error)
}

type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindUnreachable Kind = "unreachable"
	KindUnresolved  Kind = "unresolved"
	KindStatus      Kind = "status"
	KindUnknown     Kind = "unknown"
)

const (
	degradedPrefix = "I'm currently unable to perform fact-checking due to a service issue."
	degradedSuffix = "\n\nPlease try again later, or check reliable sources for verification."
)

// Error is a classified collaborator failure. It matches
// apperrors.ErrCollaborator.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fact-check service returned status %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fact-check service %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("fact-check service %s", e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{apperrors.ErrCollaborator, e.Err}
	}
	return []error{apperrors.ErrCollaborator}
}

// UserMessage is the apology recorded in place of a verdict.
func (e *Error) UserMessage() string {
	msg := degradedPrefix
	switch e.Kind {
	case KindUnreachable:
		msg += " The fact-checking service appears to be unavailable."
	case KindStatus:
		msg += fmt.Sprintf(" Service returned error: %d", e.StatusCode)
	case KindUnresolved:
		msg += " Could not connect to the fact-checking service."
	case KindTimeout:
		msg += " The fact-checking service took too long to respond."
	}
	return msg + degradedSuffix
}

// Classify maps any failure from a Collaborator onto an *Error.
func Classify(err error) *Error {
	var fcErr *Error
	if errors.As(err, &fcErr) {
		return fcErr
	}

	var apiErr genai.APIError
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Code >= 400:
		return &Error{Kind: KindStatus, StatusCode: apiErr.Code, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: err}
	case errors.As(err, &dnsErr):
		return &Error{Kind: KindUnresolved, Err: err}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &Error{Kind: KindUnreachable, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindTimeout, Err: err}
	default:
		return &Error{Kind: KindUnknown, Err: err}
	}
}
