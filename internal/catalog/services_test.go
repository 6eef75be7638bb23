package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newServiceContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateServiceRequiresAuth(t *testing.T) {
	c, rec := newServiceContext(`{"title":"Logo design","price_cents":5000}`)
	assert.NoError(t, CreateService(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateServiceStudentsOnly(t *testing.T) {
	c, rec := newServiceContext(`{"title":"Logo design","price_cents":5000}`)
	c.Set("user_id", "u-1")
	c.Set("role", "buyer")
	assert.NoError(t, CreateService(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only students")
}

func TestCreateServiceValidatesInput(t *testing.T) {
	cases := []string{
		`{"price_cents":5000}`,
		`{"title":"Logo design"}`,
		`{"title":"Logo design","price_cents":0}`,
		`{"title":"Logo design","price_cents":-100}`,
	}
	for _, body := range cases {
		c, rec := newServiceContext(body)
		c.Set("user_id", "u-1")
		c.Set("role", "student")
		assert.NoError(t, CreateService(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestUpdateServiceRejectsNegativePrice(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/services/s-1", strings.NewReader(`{"price_cents":-1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s-1")
	c.Set("user_id", "u-1")

	assert.NoError(t, UpdateService(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivateServiceRequiresAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/services/s-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s-1")

	assert.NoError(t, DeactivateService(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
