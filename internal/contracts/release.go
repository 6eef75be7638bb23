package contracts

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/ledger"
	"github.com/collabotree/collabotree/internal/notifications"
)

// ReleaseContractPayout - admin releases escrowed funds to the student.
// Requires payment PAID and payout READY_FOR_RELEASE; the transition is
// one-way and a repeat invocation is rejected.
func ReleaseContractPayout(c echo.Context) error {
	adminID, ok := c.Get("user_id").(string)
	if !ok || adminID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	contractID := c.Param("id")
	if contractID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contract id"})
	}

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var orderID, buyerID, studentID string
	var priceCents, payoutCents, feeCents int64
	var paymentStatus, payoutStatus string
	err = tx.QueryRow(ctx,
		`SELECT order_id, buyer_id, student_id, price_cents, student_payout_cents, platform_fee_cents,
		        payment_status, payout_status
		 FROM contracts WHERE id = $1 FOR UPDATE`, contractID,
	).Scan(&orderID, &buyerID, &studentID, &priceCents, &payoutCents, &feeCents, &paymentStatus, &payoutStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch contract details"})
	}

	if !CanRelease(paymentStatus, payoutStatus) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "contract not in a releasable state",
			"payment_status": paymentStatus,
			"payout_status":  payoutStatus,
		})
	}

	now := time.Now()

	// payout_status guard repeated in the WHERE clause; a concurrent release
	// loses the row lock race and affects zero rows
	ct, err := tx.Exec(ctx,
		`UPDATE contracts SET payout_status = $1, released_at = $2
		 WHERE id = $3 AND payout_status = $4`,
		PayoutReleased, now, contractID, PayoutReadyForRelease,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release payout"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payout already released"})
	}

	// Order follows the contract to its terminal state
	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = 'COMPLETED', updated_at = $1 WHERE id = $2 AND status <> 'COMPLETED'`,
		now, orderID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order status"})
	}

	// Ledger: gross release to the student minus the platform fee; the buyer
	// was already debited the full price at escrow_hold
	for _, entry := range ledger.ReleaseEntries(studentID, orderID, priceCents, feeCents) {
		_, err = tx.Exec(ctx,
			`INSERT INTO transactions (user_id, amount_cents, type, status, reference)
			 VALUES ($1, $2, $3, $4, $5)`,
			entry.UserID, entry.AmountCents, entry.Type, entry.Status, entry.Reference,
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record release"})
		}
	}

	_ = notifications.Insert(ctx, tx, studentID, notifications.TypeOrderUpdate,
		"Payout released", "Your payout has been released.", orderID)

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}

	// Email the student (best-effort)
	var studentEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, studentID).Scan(&studentEmail)
	if studentEmail != "" {
		_ = alerts.EnqueuePayoutReleased(contractID, studentID, studentEmail, payoutCents)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Escrow funds released successfully.",
		"contract_id": contractID,
		"student_id":  studentID,
	})
}
