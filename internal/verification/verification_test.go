package verification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newUploadContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/verification/id-card", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadIDCardRequiresAuth(t *testing.T) {
	c, rec := newUploadContext(`{"id_card_url":"https://cdn.example.com/id.png"}`)
	assert.NoError(t, UploadIDCard(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadIDCardStudentsOnly(t *testing.T) {
	c, rec := newUploadContext(`{"id_card_url":"https://cdn.example.com/id.png"}`)
	c.Set("user_id", "u-1")
	c.Set("role", "buyer")
	assert.NoError(t, UploadIDCard(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadIDCardValidatesURL(t *testing.T) {
	cases := []string{
		`{}`,
		`{"id_card_url":""}`,
		`{"id_card_url":"ftp://example.com/id.png"}`,
		`{"id_card_url":"just some text"}`,
		`{"id_card_url":"httpgarbage"}`,
		`{"id_card_url":"httpsnot-a-url"}`,
	}
	for _, body := range cases {
		c, rec := newUploadContext(body)
		c.Set("user_id", "u-1")
		c.Set("role", "student")
		assert.NoError(t, UploadIDCard(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}
