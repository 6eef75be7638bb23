package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/contracts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// =========================
// PayOrder - buyer pays into escrow (simulated; no gateway).
// Moves the order to IN_PROGRESS and the contract to PAID/READY_FOR_RELEASE.
// =========================
func PayOrder(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	var ownerID, studentID, status string
	var priceCents int64
	var paidAt *time.Time
	err = tx.QueryRow(ctx,
		`SELECT buyer_id, student_id, price_cents, status, paid_at FROM orders WHERE id = $1 FOR UPDATE`,
		orderID,
	).Scan(&ownerID, &studentID, &priceCents, &status, &paidAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	if ownerID != buyerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the buyer can pay"})
	}
	if status != StatusPending || paidAt != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is not payable", "status": status})
	}

	now := time.Now()

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, paid_at = $2, updated_at = $2 WHERE id = $3`,
		StatusInProgress, now, orderID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	ct, err := tx.Exec(ctx,
		`UPDATE contracts
		 SET payment_status = $1, payout_status = $2, paid_at = $3, escrowed_at = $3
		 WHERE order_id = $4 AND payment_status = $5`,
		contracts.PaymentPaid, contracts.PayoutReadyForRelease, now, orderID, contracts.PaymentPending,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update contract"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "contract already paid or missing"})
	}

	// Record the escrow hold in the ledger
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, amount_cents, type, status, reference)
		 VALUES ($1, $2, 'debit', 'escrow_hold', $3)`,
		buyerID, priceCents, orderID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record escrow hold"})
	}

	_ = notifications.Insert(ctx, tx, studentID, notifications.TypeOrderUpdate,
		"Order paid", "Payment is in escrow. You can start working.", orderID)

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Email the student (best-effort)
	var studentEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, studentID).Scan(&studentEmail)
	if studentEmail != "" {
		_ = alerts.EnqueueOrderPaid(orderID, buyerID, studentID, studentEmail, priceCents)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Payment received and escrowed", "order_id": orderID})
}
