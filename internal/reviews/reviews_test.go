package reviews

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newReviewContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/o-1/review", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("o-1")
	return c, rec
}

func TestCreateReviewRequiresAuth(t *testing.T) {
	c, rec := newReviewContext(`{"rating":5}`)
	assert.NoError(t, CreateReview(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 100} {
		c, rec := newReviewContext(fmt.Sprintf(`{"rating":%d}`, rating))
		c.Set("user_id", "u-1")
		c.Set("role", "buyer")
		assert.NoError(t, CreateReview(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating: %d", rating)
	}
}
