package verification

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// UploadIDCard - student submits an ID image for review. Re-uploading after a
// rejection re-enters the queue.
func UploadIDCard(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	if role != "student" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only students need ID verification"})
	}

	var req struct {
		IDCardURL string `json:"id_card_url"`
	}
	if err := c.Bind(&req); err != nil || req.IDCardURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_card_url is required"})
	}
	if !strings.HasPrefix(req.IDCardURL, "data:image/") &&
		!strings.HasPrefix(req.IDCardURL, "http://") &&
		!strings.HasPrefix(req.IDCardURL, "https://") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_card_url must be an image data URL or an http(s) URL"})
	}

	_, err := db.Conn.Exec(context.Background(), `
		UPDATE users
		SET id_card_url = $1, has_uploaded_id = TRUE, is_verified = FALSE,
		    verification_note = NULL, verified_at = NULL
		WHERE id = $2`,
		req.IDCardURL, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store ID card"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "ID card uploaded, pending review"})
}
