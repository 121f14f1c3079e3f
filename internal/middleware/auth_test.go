package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/token"
)

func newGuardedApp(t *testing.T) (*fiber.App, *token.Issuer, *models.User) {
	t.Helper()
	users := repository.NewMemoryUserRepo()
	user := &models.User{Name: "Alice", Email: "a@x.com"}
	require.NoError(t, users.Create(context.Background(), user))

	issuer := token.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	app := fiber.New()
	app.Get("/me", Protect(issuer, users), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": CurrentUser(c).Email})
	})
	return app, issuer, user
}

func TestProtectRejectsMissingHeader(t *testing.T) {
	app, _, _ := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsRefreshTokenAsAccess(t *testing.T) {
	app, issuer, user := newGuardedApp(t)

	refresh, _, err := issuer.IssueRefresh(user.ID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectAttachesUser(t *testing.T) {
	app, issuer, user := newGuardedApp(t)

	access, _, err := issuer.IssueAccess(user.ID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "a@x.com")
}

func TestProtectRejectsUnknownUser(t *testing.T) {
	app, issuer, _ := newGuardedApp(t)

	access, _, err := issuer.IssueAccess("64b000000000000000000000")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
