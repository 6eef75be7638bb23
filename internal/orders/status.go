package orders

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// =========================
// UpdateOrderStatus - role-aware transitions only
// =========================
func UpdateOrderStatus(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	var buyerID, studentID, status string
	err = tx.QueryRow(ctx,
		`SELECT buyer_id, student_id, status FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&buyerID, &studentID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	var actorRole string
	switch uid {
	case buyerID:
		actorRole = "buyer"
	case studentID:
		actorRole = "student"
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this order"})
	}

	if !AllowedTransition(actorRole, status, req.Status) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "status transition not allowed",
			"status": status,
		})
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		req.Status, orderID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order status"})
	}

	// A cancelled pending order never escrowed anything; drop its contract
	if req.Status == StatusCancelled {
		_, err = tx.Exec(ctx,
			`DELETE FROM contracts WHERE order_id = $1 AND payment_status = 'PENDING'`,
			orderID,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel contract"})
		}
	}

	// Notify the other party inside the same transaction
	recipient := buyerID
	if actorRole == "buyer" {
		recipient = studentID
	}
	title := "Order updated"
	switch req.Status {
	case StatusDelivered:
		title = "Order delivered"
	case StatusCompleted:
		title = "Order completed"
	case StatusCancelled:
		title = "Order cancelled"
	}
	_ = notifications.Insert(ctx, tx, recipient, notifications.TypeOrderUpdate, title, "", orderID)

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Email the other party (best-effort)
	var email string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, recipient).Scan(&email)
	if email != "" {
		switch req.Status {
		case StatusDelivered:
			_ = alerts.EnqueueOrderDelivered(orderID, buyerID, studentID, email)
		case StatusCompleted:
			_ = alerts.EnqueueOrderCompleted(orderID, buyerID, studentID, email)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated", "status": req.Status})
}
