package hiring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateHireRequestRequiresAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/hire-requests", strings.NewReader(`{"service_id":"s-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, CreateHireRequest(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHireRequestBuyersOnly(t *testing.T) {
	for _, role := range []string{"student", "admin", ""} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/hire-requests", strings.NewReader(`{"service_id":"s-1"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", "u-1")
		c.Set("role", role)

		assert.NoError(t, CreateHireRequest(c))
		assert.Equal(t, http.StatusForbidden, rec.Code, "role: %q", role)
	}
}

func TestCreateHireRequestRequiresServiceID(t *testing.T) {
	for _, body := range []string{`{}`, `{"service_id":""}`, `{"message":"hi"}`} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/hire-requests", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", "u-1")
		c.Set("role", "buyer")

		assert.NoError(t, CreateHireRequest(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}
