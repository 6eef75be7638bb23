package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

type UpdateProfileRequest struct {
	Name       string   `json:"name"`
	Bio        string   `json:"bio"`
	University string   `json:"university"`
	Skills     []string `json:"skills"`
	AvatarURL  string   `json:"avatar_url"`
}

// PATCH /user/profile
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
		    bio = COALESCE(NULLIF($2, ''), bio),
		    university = COALESCE(NULLIF($3, ''), university),
		    skills = COALESCE($4, skills),
		    avatar_url = COALESCE(NULLIF($5, ''), avatar_url)
		WHERE id = $6
	`
	_, err := db.Conn.Exec(c.Request().Context(), query, req.Name, req.Bio, req.University, req.Skills, req.AvatarURL, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
	})
}
