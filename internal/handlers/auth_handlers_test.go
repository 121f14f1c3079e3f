package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/haiminh-dev/projecthub/internal/handlers"
	"github.com/haiminh-dev/projecthub/internal/middleware"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/routes"
	"github.com/haiminh-dev/projecthub/internal/services"
	"github.com/haiminh-dev/projecthub/internal/token"
)

type captureMailer struct {
	lastHTML string
}

func (m *captureMailer) Send(_ context.Context, _, _, html string) error {
	m.lastHTML = html
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *captureMailer) {
	t.Helper()
	users := repository.NewMemoryUserRepo()
	projects := repository.NewMemoryProjectRepo()
	issuer := token.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	mail := &captureMailer{}
	log := zap.NewNop()

	authSvc := services.NewAuthService(users, issuer, mail, "http://app.test", bcrypt.MinCost, 10*time.Minute, log)

	app := fiber.New()
	routes.Setup(app, routes.Deps{
		Auth:     handlers.NewAuthHandler(authSvc, 7*24*time.Hour, log),
		Users:    handlers.NewUserHandler(services.NewUserService(users, bcrypt.MinCost), log),
		Projects: handlers.NewProjectHandler(services.NewProjectService(projects, users), log),
		Guard:    middleware.Protect(issuer, users),
	})
	return app, mail
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}, mutate ...func(*http.Request)) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == handlers.RefreshCookieName {
			return c
		}
	}
	return nil
}

func TestAuthEndToEnd(t *testing.T) {
	app, _ := newTestApp(t)

	// register
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"name": "Alice", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access_token"])

	cookie := refreshCookie(resp)
	require.NotNil(t, cookie, "register must set the refresh cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, cookie.Expires.After(time.Now().Add(6*24*time.Hour)))

	// wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// correct login rotates the session
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	accessToken, _ := body["access_token"].(string)
	require.NotEmpty(t, accessToken)
	loginCookie := refreshCookie(resp)
	require.NotNil(t, loginCookie)

	// the register-time cookie is no longer current
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh-token", nil,
		func(r *http.Request) { r.AddCookie(cookie) })
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// refresh with the current cookie yields a fresh access token
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh-token", nil,
		func(r *http.Request) { r.AddCookie(loginCookie) })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.NotEmpty(t, body["access_token"])

	// profile with the bearer token
	resp = doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", nil,
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+accessToken) })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// logout clears the cookie and revokes the session
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/logout", nil,
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+accessToken) })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := refreshCookie(resp)
	require.NotNil(t, cleared)
	assert.True(t, cleared.Expires.Before(time.Now()))

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh-token", nil,
		func(r *http.Request) { r.AddCookie(loginCookie) })
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshWithoutCookie(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"name": "Alice", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"name": "Alice", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	known := doJSON(t, app, http.MethodPost, "/api/v1/auth/forgot-password", fiber.Map{"email": "a@x.com"})
	unknown := doJSON(t, app, http.MethodPost, "/api/v1/auth/forgot-password", fiber.Map{"email": "ghost@x.com"})

	require.Equal(t, http.StatusOK, known.StatusCode)
	require.Equal(t, http.StatusOK, unknown.StatusCode)

	knownBody, err := io.ReadAll(known.Body)
	require.NoError(t, err)
	unknownBody, err := io.ReadAll(unknown.Body)
	require.NoError(t, err)
	assert.Equal(t, string(knownBody), string(unknownBody))
}

var resetLinkRe = regexp.MustCompile(`/reset-password/([0-9a-f]+)`)

func TestResetPasswordEndpoint(t *testing.T) {
	app, mail := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"name": "Alice", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/forgot-password", fiber.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := resetLinkRe.FindStringSubmatch(mail.lastHTML)
	require.Len(t, m, 2)
	raw := m[1]

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/reset-password/"+raw, fiber.Map{"password": "newpass9"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email": "a@x.com", "password": "newpass9",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/reset-password/"+raw, fiber.Map{"password": "another1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
