package sessions

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-factcheck-chat/token"
)

// CookieName is the cookie carrying the session token.
const CookieName = "auth-token"

// Verifier checks a raw session token.
type Verifier interface {
	Verify(rawToken string) (*token.Claims, error)
}

// Guard authenticates requests from the session cookie and writes that cookie
// on login and logout. It never performs I/O.
type Guard struct {
	verifier Verifier
	maxAge   time.Duration
	secure   bool
}

type GuardOption func(*Guard)

// WithMaxAge sets the cookie lifetime, which defaults to token.DefaultTTL
func WithMaxAge(maxAge time.Duration) GuardOption {
	return func(g *Guard) {
		g.maxAge = maxAge
	}
}

// WithSecureCookies forces the Secure attribute regardless of request scheme
func WithSecureCookies(secure bool) GuardOption {
	return func(g *Guard) {
		g.secure = secure
	}
}

func NewGuard(verifier Verifier, options ...GuardOption) *Guard {
	g := &Guard{
		verifier: verifier,
		maxAge:   token.DefaultTTL,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Authenticate returns the claims of a valid session cookie. A missing cookie
// and a rejected token both report false; the reason is not exposed.
func (g *Guard) Authenticate(r *http.Request) (*token.Claims, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err := g.verifier.Verify(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// SetCookie stores rawToken in an HTTP-only, lax same-site session cookie.
func (g *Guard) SetCookie(w http.ResponseWriter, r *http.Request, rawToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    rawToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(g.maxAge / time.Second),
	})
}

// ClearCookie tells the client to drop the session cookie.
func (g *Guard) ClearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   g.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (g *Guard) isSecure(r *http.Request) bool {
	if g.secure {
		return true
	}
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
