package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-factcheck-chat/sessions"
	"github.com/jrsteele09/go-factcheck-chat/token"
	"github.com/stretchr/testify/require"
)

const (
	testUserID    = "user-1"
	testUserEmail = "john.doe@example.com"
)

type fixture struct {
	now   time.Time
	codec *token.Codec
	guard *sessions.Guard
}

func setupFixture(t *testing.T, options ...sessions.GuardOption) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := token.NewCodec("guard-secret", token.WithNowFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.codec = codec
	f.guard = sessions.NewGuard(codec, options...)
	return f
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: value})
	}
	return r
}

func TestGuard_Authenticate(t *testing.T) {
	f := setupFixture(t)
	raw, err := f.codec.Issue(testUserID, testUserEmail)
	require.NoError(t, err)

	t.Run("no cookie", func(t *testing.T) {
		claims, ok := f.guard.Authenticate(requestWithCookie(""))
		require.False(t, ok)
		require.Nil(t, claims)
	})

	t.Run("valid token", func(t *testing.T) {
		claims, ok := f.guard.Authenticate(requestWithCookie(raw))
		require.True(t, ok)
		require.Equal(t, testUserID, claims.UserID)
		require.Equal(t, testUserEmail, claims.Email)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, ok := f.guard.Authenticate(requestWithCookie("abc.def.ghi"))
		require.False(t, ok)
	})

	t.Run("cookie with another name is ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: raw})
		_, ok := f.guard.Authenticate(r)
		require.False(t, ok)
	})

	t.Run("expired token", func(t *testing.T) {
		f.now = f.now.Add(token.DefaultTTL + time.Second)
		_, ok := f.guard.Authenticate(requestWithCookie(raw))
		require.False(t, ok)
	})
}

func TestGuard_SetCookie(t *testing.T) {
	f := setupFixture(t)

	w := httptest.NewRecorder()
	f.guard.SetCookie(w, httptest.NewRequest(http.MethodPost, "/login", nil), "tok")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, sessions.CookieName, c.Name)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, "/", c.Path)
	require.True(t, c.HttpOnly)
	require.False(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, 7*24*60*60, c.MaxAge)
}

func TestGuard_SecureAndClear(t *testing.T) {
	f := setupFixture(t, sessions.WithSecureCookies(true))

	w := httptest.NewRecorder()
	f.guard.ClearCookie(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
	require.Empty(t, cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}
