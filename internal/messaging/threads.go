package messaging

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// Thread is a buyer/student chat scoped to an accepted hire request
type Thread struct {
	ID            string     `json:"id"`
	HireRequestID string     `json:"hire_request_id"`
	ServiceID     string     `json:"service_id"`
	BuyerID       string     `json:"buyer_id"`
	StudentID     string     `json:"student_id"`
	MsgCount      int        `json:"msg_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Message is one chat line; immutable once created
type Message struct {
	ID          string    `json:"id"`
	ThreadID    string    `json:"thread_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// threadParticipants resolves a thread and tells who the counterparty is.
// Returns pgx.ErrNoRows when the thread doesn't exist.
func threadParticipants(ctx context.Context, threadID, userID string) (recipientID string, err error) {
	var buyerID, studentID string
	err = db.Conn.QueryRow(ctx,
		`SELECT buyer_id, student_id FROM threads WHERE id = $1`, threadID,
	).Scan(&buyerID, &studentID)
	if err != nil {
		return "", err
	}
	switch userID {
	case buyerID:
		return studentID, nil
	case studentID:
		return buyerID, nil
	}
	return "", errNotParticipant
}

var errNotParticipant = errors.New("not a participant in this thread")

// =========================
// GetUserThreads - most recently active first
// =========================
func GetUserThreads(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, hire_request_id, service_id, buyer_id, student_id, msg_count, last_message_at, created_at
		 FROM threads WHERE buyer_id = $1 OR student_id = $1
		 ORDER BY COALESCE(last_message_at, created_at) DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch threads"})
	}
	defer rows.Close()

	threads := []Thread{}
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ID, &t.HireRequestID, &t.ServiceID, &t.BuyerID, &t.StudentID,
			&t.MsgCount, &t.LastMessageAt, &t.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		threads = append(threads, t)
	}

	return c.JSON(http.StatusOK, echo.Map{"threads": threads})
}

// =========================
// GetThreadMessages - participant-only, oldest first
// =========================
func GetThreadMessages(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	threadID := c.Param("id")
	if threadID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing thread id"})
	}

	ctx := context.Background()

	if _, err := threadParticipants(ctx, threadID, uid); err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this thread"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT id, thread_id, sender_id, recipient_id, body, created_at
		 FROM messages WHERE thread_id = $1 ORDER BY created_at ASC`, threadID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch messages"})
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		messages = append(messages, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}
