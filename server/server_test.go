package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-factcheck-chat/auth"
	"github.com/jrsteele09/go-factcheck-chat/chat"
	faketurnrepo "github.com/jrsteele09/go-factcheck-chat/conversations/repofake"
	"github.com/jrsteele09/go-factcheck-chat/factcheck"
	"github.com/jrsteele09/go-factcheck-chat/internal/config"
	"github.com/jrsteele09/go-factcheck-chat/server"
	"github.com/jrsteele09/go-factcheck-chat/sessions"
	"github.com/jrsteele09/go-factcheck-chat/token"
	fakeuserrepo "github.com/jrsteele09/go-factcheck-chat/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "server-test-secret"
	allowedOrigin    = "https://app.example.com"
	testUserName     = "John Doe"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "password123"
)

type collaboratorFunc func(ctx context.Context, claim string) (any, error)

func (f collaboratorFunc) FactCheck(ctx context.Context, claim string) (any, error) {
	return f(ctx, claim)
}

func verdictReply(result, explanation string) collaboratorFunc {
	return func(context.Context, string) (any, error) {
		text := `{"fact_check_result":"` + result + `","explanation":"` + explanation + `"}`
		return []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}}}, nil
	}
}

type testFixture struct {
	server *server.Server
	codec  *token.Codec
	turns  *faketurnrepo.FakeTurnRepo
}

func setupTestFixture(t *testing.T, collaborator factcheck.Collaborator) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("ALLOWED_ORIGINS", allowedOrigin)
	t.Setenv("JWT_SECRET", secretStr)
	t.Setenv("DATABASE_URL", "postgres://user:hunter2@db/chat")
	t.Setenv("FACTCHECK_WEBHOOK_URL", "https://hooks.example.com/secret-path")

	codec, err := token.NewCodec(secretStr)
	require.NoError(t, err)

	authService, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), codec)
	require.NoError(t, err)

	turns := faketurnrepo.NewFakeTurnRepo()
	chatService, err := chat.NewService(collaborator, turns)
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Services{
		Auth:  authService,
		Chat:  chatService,
		Guard: sessions.NewGuard(codec),
	})
	require.NoError(t, err)

	return &testFixture{server: srv, codec: codec, turns: turns}
}

func (f *testFixture) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) signup(t *testing.T) *http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, server.RouteSignup, map[string]string{
		"name": testUserName, "email": testUserEmail, "password": testUserPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessions.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", sessions.CookieName)
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := server.New(config.New(), server.Services{})
	require.Error(t, err)
}

func TestLoginThenStatus(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))
	f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteLogin, map[string]string{"email": testUserEmail, "password": testUserPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "Login successful", body["message"])
	user := body["user"].(map[string]any)
	require.Equal(t, testUserEmail, user["email"])
	require.Equal(t, testUserName, user["name"])
	require.NotContains(t, user, "passwordHash")
	require.NotEmpty(t, body["token"])

	cookie := sessionCookie(t, rec)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, int(token.DefaultTTL.Seconds()), cookie.MaxAge)
	require.Equal(t, body["token"], cookie.Value)

	rec = f.do(t, http.MethodGet, server.RouteAuthStatus, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode(t, rec)
	require.Equal(t, true, status["authenticated"])
	require.Equal(t, map[string]any{"userId": user["id"], "email": testUserEmail}, status["user"])
}

func TestStatus_Unauthenticated(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodGet, server.RouteAuthStatus, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"authenticated": false}, decode(t, rec))

	rec = f.do(t, http.MethodGet, server.RouteAuthStatus, nil, &http.Cookie{Name: sessions.CookieName, Value: "garbage"})
	require.Equal(t, map[string]any{"authenticated": false}, decode(t, rec))
}

func TestLogin_Failures(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))
	f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteLogin, map[string]string{"email": testUserEmail, "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, map[string]any{"error": "Invalid email or password"}, decode(t, rec))
	require.Empty(t, rec.Result().Cookies())

	rec = f.do(t, http.MethodPost, server.RouteLogin, map[string]string{"email": "nobody@example.com", "password": testUserPassword})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, map[string]any{"error": "Invalid email or password"}, decode(t, rec))

	rec = f.do(t, http.MethodPost, server.RouteLogin, map[string]string{"email": testUserEmail})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"error": "Email and password are required"}, decode(t, rec))

	rec = f.do(t, http.MethodPost, server.RouteLogin, "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignup_Duplicate(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))
	f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteSignup, map[string]string{
		"name": "Other", "email": testUserEmail, "password": testUserPassword,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, map[string]any{"error": "User already exists with this email"}, decode(t, rec))
}

func TestSignup_PasswordOverBcryptLimitIsBadRequest(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodPost, server.RouteSignup, map[string]string{
		"name": testUserName, "email": testUserEmail, "password": strings.Repeat("p", 80),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"error": "Password must be at most 72 bytes long"}, decode(t, rec))
	require.Empty(t, rec.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodPost, server.RouteLogout, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.Empty(t, cookie.Value)
	require.Less(t, cookie.MaxAge, 0)
}

func TestChat_RequiresSession(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodPost, server.RouteChat, map[string]string{"message": "hi"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, map[string]any{"error": "Unauthorized"}, decode(t, rec))

	other, err := token.NewCodec("another-secret")
	require.NoError(t, err)
	forged, err := other.Issue("user-1", testUserEmail)
	require.NoError(t, err)

	rec = f.do(t, http.MethodPost, server.RouteChat, map[string]string{"message": "hi"},
		&http.Cookie{Name: sessions.CookieName, Value: forged})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, map[string]any{"error": "Unauthorized"}, decode(t, rec))

	rec = f.do(t, http.MethodGet, server.RouteMessages, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 0, f.turns.Len())
}

func TestChat_FactCheckedThenHistory(t *testing.T) {
	f := setupTestFixture(t, verdictReply("false", "The sky is blue."))
	cookie := f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteChat, map[string]string{"message": "The sky is green"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.NotEmpty(t, body["messageId"])
	require.Equal(t, "🔍 Fact-Check Result:\n\n❌ INACCURATE\n\n📝 Explanation: The sky is blue.", body["response"])
	require.Equal(t, true, body["isFactChecked"])
	require.NotEmpty(t, body["timestamp"])
	require.NotContains(t, body, "warning")

	verdict := body["factCheckResult"].(map[string]any)
	require.Equal(t, false, verdict["isAccurate"])
	require.Equal(t, float64(90), verdict["confidence"])
	require.Equal(t, "The sky is blue.", verdict["explanation"])

	rec = f.do(t, http.MethodGet, server.RouteMessages, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode(t, rec)["messages"].([]any)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	require.Equal(t, body["messageId"], first["id"])
	require.Equal(t, "The sky is green", first["message"])
	require.Equal(t, body["response"], first["response"])
}

func TestChat_CollaboratorDownIsDegraded(t *testing.T) {
	f := setupTestFixture(t, collaboratorFunc(func(context.Context, string) (any, error) {
		return nil, &factcheck.Error{Kind: factcheck.KindUnreachable}
	}))
	cookie := f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteChat, map[string]string{"message": "The sky is green"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, chat.DegradedWarning, body["warning"])
	require.Equal(t, false, body["isFactChecked"])
	require.NotContains(t, body, "factCheckResult")
	require.Contains(t, body["response"], "appears to be unavailable")
	require.Equal(t, 1, f.turns.Len())
}

func TestChat_MissingMessage(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))
	cookie := f.signup(t)

	rec := f.do(t, http.MethodPost, server.RouteChat, map[string]string{"message": "   "}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"error": "Message is required"}, decode(t, rec))
	require.Equal(t, 0, f.turns.Len())
}

func TestMessages_EmptyHistory(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))
	cookie := f.signup(t)

	rec := f.do(t, http.MethodGet, server.RouteMessages, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestChat_Preflight(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	req := httptest.NewRequest(http.MethodOptions, server.RouteChat, nil)
	req.Header.Set("Origin", allowedOrigin)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, allowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	req = httptest.NewRequest(http.MethodOptions, server.RouteChat, nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDebug_NeverLeaksValues(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodGet, server.RouteDebug, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Body.String()
	require.NotContains(t, raw, secretStr)
	require.NotContains(t, raw, "hunter2")
	require.NotContains(t, raw, "secret-path")

	debug := decode(t, rec)["debug"].(map[string]any)
	require.Equal(t, true, debug["hasJwtSecret"])
	require.Equal(t, true, debug["hasDatabaseUrl"])
	require.Equal(t, true, debug["hasWebhookUrl"])
	require.Equal(t, false, debug["hasGeminiKey"])
}

func TestSecurityHeaders(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodGet, server.RouteAuthStatus, nil)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}

func TestRecoverMiddleware(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	handler := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, f.server.APIMiddleware()...)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, map[string]any{"error": "Internal server error"}, decode(t, rec))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	f := setupTestFixture(t, verdictReply("true", "ok"))

	rec := f.do(t, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteChat, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
