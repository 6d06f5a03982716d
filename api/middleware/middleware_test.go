package middleware

import (
	"context"
	"errors"
	"io"
	"movie_curator/configs"
	"movie_curator/model"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyIdToken(ctx context.Context, idToken string) (*model.Identity, error) {
	switch idToken {
	case "user-token":
		return &model.Identity{UserId: "firebase-user"}, nil
	case "admin-token":
		return &model.Identity{UserId: "firebase-admin", IsAdmin: true}, nil
	}
	return nil, errors.New("invalid token")
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("SESSION_TOKEN_SECRET", "middleware-secret")
	configs.LoadEnvVariables()

	app := fiber.New()
	app.Use(IdentityMiddleware(fakeVerifier{}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(GetIdentity(c))
	})
	app.Get("/admin", AdminMiddleware, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func readIdentity(t *testing.T, resp *http.Response) model.Identity {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var identity model.Identity
	require.NoError(t, json.Unmarshal(body, &identity))
	return identity
}

func TestIdentityMiddleware_AnonymousSessionIsStable(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := readIdentity(t, resp)
	assert.True(t, first.Anonymous)
	assert.Contains(t, first.UserId, "anon-")

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, first.UserId, readIdentity(t, resp).UserId)
}

func TestIdentityMiddleware_BearerToken(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	identity := readIdentity(t, resp)
	assert.Equal(t, "firebase-user", identity.UserId)
	assert.False(t, identity.Anonymous)

	req = httptest.NewRequest(http.MethodGet, "/whoami?idToken=user-token", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "firebase-user", readIdentity(t, resp).UserId)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer forged")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminMiddleware(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIsAllowedOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://curator.example---https://other.example")
	configs.LoadEnvVariables()

	assert.True(t, IsAllowedOrigin(""))
	assert.True(t, IsAllowedOrigin("http://localhost:3000"))
	assert.True(t, IsAllowedOrigin("https://other.example"))
	assert.False(t, IsAllowedOrigin("https://evil.example"))
}
