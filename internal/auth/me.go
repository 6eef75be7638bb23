package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// Me returns the currently authenticated user's profile
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var (
		id, name, email, role     string
		bio, university           *string
		skills                    []string
		isVerified, hasUploadedID bool
		verifiedAt                *time.Time
	)
	err := db.Conn.QueryRow(context.Background(), `
        SELECT id, name, email, role, bio, university, COALESCE(skills, '{}'),
               COALESCE(is_verified, FALSE), COALESCE(has_uploaded_id, FALSE), verified_at
        FROM users WHERE id = $1`, userID).
		Scan(&id, &name, &email, &role, &bio, &university, &skills, &isVerified, &hasUploadedID, &verifiedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":              id,
		"name":            name,
		"email":           email,
		"role":            role,
		"bio":             bio,
		"university":      university,
		"skills":          skills,
		"is_verified":     isVerified,
		"has_uploaded_id": hasUploadedID,
		"verified_at":     verifiedAt,
	})
}
