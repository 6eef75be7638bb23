package verification

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// PendingStudent is one row of the admin review queue
type PendingStudent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	University string    `json:"university,omitempty"`
	IDCardURL  string    `json:"id_card_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// GET /admin/verification/pending
func ListPending(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, name, email, COALESCE(university, ''), COALESCE(id_card_url, ''), created_at
		FROM users
		WHERE role = 'student' AND has_uploaded_id AND NOT COALESCE(is_verified, FALSE)
		ORDER BY created_at ASC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch queue"})
	}
	defer rows.Close()

	queue := []PendingStudent{}
	for rows.Next() {
		var s PendingStudent
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.University, &s.IDCardURL, &s.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		queue = append(queue, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"pending": queue})
}

// POST /admin/verification/:id/approve
func VerifyStudent(c echo.Context) error {
	studentID := c.Param("id")
	if studentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing student id"})
	}

	ctx := context.Background()

	ct, err := db.Conn.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verified_at = NOW(), verification_note = NULL
		WHERE id = $1 AND role = 'student' AND has_uploaded_id AND NOT COALESCE(is_verified, FALSE)`,
		studentID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify student"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "student not in the review queue"})
	}

	_ = notifications.Insert(ctx, db.Conn, studentID, notifications.TypeSystem,
		"You're verified", "Your student ID was approved. Your listings now show a verified badge.", "")

	var email string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, studentID).Scan(&email)
	if email != "" {
		_ = alerts.EnqueueVerificationApproved(studentID, email)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "student verified"})
}

// POST /admin/verification/:id/reject
func RejectStudent(c echo.Context) error {
	studentID := c.Param("id")
	if studentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing student id"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil || req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a rejection reason is required"})
	}

	ctx := context.Background()

	// Terminal for this submission; a re-upload re-enters the queue
	ct, err := db.Conn.Exec(ctx, `
		UPDATE users
		SET has_uploaded_id = FALSE, is_verified = FALSE, verification_note = $1
		WHERE id = $2 AND role = 'student' AND has_uploaded_id AND NOT COALESCE(is_verified, FALSE)`,
		req.Reason, studentID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reject student"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "student not in the review queue"})
	}

	_ = notifications.Insert(ctx, db.Conn, studentID, notifications.TypeSystem,
		"Verification rejected", "Reason: "+req.Reason+". You can upload a new ID to try again.", "")

	var email string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, studentID).Scan(&email)
	if email != "" {
		_ = alerts.EnqueueVerificationRejected(studentID, email, req.Reason)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "student verification rejected"})
}
