package messaging

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// SendMessage - buyer or student sends a message in a hire-request thread
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	threadID := c.Param("id")
	if threadID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing thread id"})
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&body); err != nil || body.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := context.Background()

	recipientID, err := threadParticipants(ctx, threadID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this thread"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	msgID := uuid.New().String()
	var createdAt time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO messages (id, thread_id, sender_id, recipient_id, body)
         VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		msgID, threadID, userID, recipientID, body.Body,
	).Scan(&createdAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	_, err = tx.Exec(ctx,
		`UPDATE threads SET msg_count = msg_count + 1, last_message_at = $1 WHERE id = $2`,
		createdAt, threadID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update thread"})
	}

	_ = notifications.Insert(ctx, tx, recipientID, notifications.TypeSystem,
		"New message", "You have a new message.", msgID)

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Broadcast new message event to WS subscribers
	BroadcastNewMessage(threadID, echo.Map{
		"id":           msgID,
		"thread_id":    threadID,
		"sender_id":    userID,
		"recipient_id": recipientID,
		"body":         body.Body,
		"created_at":   createdAt.UTC().Format(time.RFC3339),
	})

	// Email the recipient (best-effort)
	var recipientEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, recipientID).Scan(&recipientEmail)
	if recipientEmail != "" {
		_ = alerts.EnqueueMessageNew(threadID, userID, recipientID, recipientEmail, body.Body)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         msgID,
		"created_at": createdAt,
	})
}
