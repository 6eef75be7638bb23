package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwtv4.MapClaims) string {
	t.Helper()
	token := jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func runJWT(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	assert.NoError(t, handler(c))
	return rec, c
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareBadFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")

	token := signToken(t, jwtv4.MapClaims{
		"user_id": "u-1",
		"role":    "buyer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwtv4.MapClaims{
		"user_id": "u-1",
		"role":    "buyer",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsPurposeTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	// a password-reset token must not double as a session token
	token := signToken(t, jwtv4.MapClaims{
		"user_id": "u-1",
		"purpose": "password_reset",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, _ := runJWT(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwtv4.MapClaims{
		"user_id": "u-42",
		"role":    "student",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, c := runJWT(t, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-42", c.Get("user_id"))
	assert.Equal(t, "student", c.Get("role"))
}

func TestJWTMiddlewareQueryTokenFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwtv4.MapClaims{
		"user_id": "u-ws",
		"role":    "buyer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/ws/threads/t-1?token="+token, nil)
	rec, c := runJWT(t, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-ws", c.Get("user_id"))
}

func TestAdminGuard(t *testing.T) {
	e := echo.New()
	handler := AdminGuard(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// non-admin role is rejected
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "buyer")
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// missing role is rejected
	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin passes
	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "admin")
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	handler := RequireRoles("student", "admin")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/services", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "student")
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/services", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "buyer")
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
