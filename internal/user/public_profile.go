package user

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// GetPublicProfile returns the public view of a user, including the verified
// badge and aggregate rating for student sellers
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	ctx := context.Background()

	var (
		id, name, role             string
		bio, university, avatarURL *string
		skills                     []string
		isVerified                 bool
		verifiedAt                 *time.Time
		createdAt                  time.Time
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT id, name, role, bio, university, avatar_url, COALESCE(skills, '{}'),
               COALESCE(is_verified, FALSE), verified_at, created_at
        FROM users WHERE id = $1 AND COALESCE(is_active, TRUE)`, userID).
		Scan(&id, &name, &role, &bio, &university, &avatarURL, &skills, &isVerified, &verifiedAt, &createdAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	resp := echo.Map{
		"id":          id,
		"name":        name,
		"role":        role,
		"bio":         bio,
		"university":  university,
		"avatar_url":  avatarURL,
		"skills":      skills,
		"is_verified": isVerified,
		"verified_at": verifiedAt,
		"created_at":  createdAt,
	}

	if role == "student" {
		var avgRating float64
		var reviewCount int
		_ = db.Conn.QueryRow(ctx, `
            SELECT COALESCE(AVG(rating)::float, 0), COUNT(*)
            FROM reviews WHERE student_id = $1`, id).Scan(&avgRating, &reviewCount)
		resp["avg_rating"] = avgRating
		resp["review_count"] = reviewCount
	}

	return c.JSON(http.StatusOK, resp)
}
