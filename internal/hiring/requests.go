package hiring

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/alerts"
	"github.com/collabotree/collabotree/internal/contracts"
	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// =========================
// CreateHireRequest - buyer asks to engage a service
// =========================
func CreateHireRequest(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	if role != "buyer" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only buyers can send hire requests"})
	}

	var req struct {
		ServiceID string `json:"service_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service_id"})
	}

	ctx := context.Background()

	var studentID string
	var priceCents int64
	err := db.Conn.QueryRow(ctx,
		`SELECT user_id, price_cents FROM services WHERE id = $1 AND is_active`,
		req.ServiceID,
	).Scan(&studentID, &priceCents)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found or inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch service"})
	}

	if studentID == buyerID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot hire your own service"})
	}

	// One live request per (buyer, service); terminal ones don't count
	var pendingExists bool
	_ = db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hire_requests WHERE buyer_id = $1 AND service_id = $2 AND status = $3)`,
		buyerID, req.ServiceID, StatusPending,
	).Scan(&pendingExists)
	if pendingExists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a pending request for this service"})
	}

	requestID := uuid.New().String()
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO hire_requests (id, buyer_id, student_id, service_id, message, price_cents, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		requestID, buyerID, studentID, req.ServiceID, req.Message, priceCents, StatusPending, time.Now(),
	)
	if err != nil {
		// The partial unique index catches a double-submit race
		return c.JSON(http.StatusConflict, echo.Map{"error": "failed to create hire request"})
	}

	_ = notifications.Insert(ctx, db.Conn, studentID, notifications.TypeHireRequest,
		"New hire request", "A buyer wants to hire you.", requestID)

	// Email the student (best-effort)
	var studentEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, studentID).Scan(&studentEmail)
	if studentEmail != "" {
		_ = alerts.EnqueueHireRequestNew(requestID, buyerID, studentID, studentEmail, priceCents)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"hire_request_id": requestID,
		"message":         "Hire request sent. Awaiting seller response.",
	})
}

// =========================
// AcceptHireRequest - service owner accepts; order, contract and chat thread
// are created in the same transaction
// =========================
func AcceptHireRequest(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hire request id"})
	}

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction start failed"})
	}
	defer tx.Rollback(ctx)

	var buyerID, studentID, serviceID, status string
	var priceCents int64
	err = tx.QueryRow(ctx,
		`SELECT buyer_id, student_id, service_id, price_cents, status
		 FROM hire_requests WHERE id = $1 FOR UPDATE`,
		requestID,
	).Scan(&buyerID, &studentID, &serviceID, &priceCents, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hire request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch hire request"})
	}

	if studentID != actorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the service owner can accept"})
	}
	if !CanTransition(status, StatusAccepted) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hire request is not pending", "status": status})
	}

	now := time.Now()

	_, err = tx.Exec(ctx,
		`UPDATE hire_requests SET status = $1, updated_at = $2 WHERE id = $3`,
		StatusAccepted, now, requestID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update hire request"})
	}

	orderID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, hire_request_id, service_id, buyer_id, student_id, price_cents, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'PENDING', $7)`,
		orderID, requestID, serviceID, buyerID, studentID, priceCents, now,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	feeCents, payoutCents := contracts.SplitFee(priceCents, contracts.FeeBps())
	contractID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO contracts (id, order_id, hire_request_id, buyer_id, student_id, price_cents,
		                        platform_fee_cents, student_payout_cents, payment_status, payout_status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		contractID, orderID, requestID, buyerID, studentID, priceCents,
		feeCents, payoutCents, contracts.PaymentPending, contracts.PayoutAwaiting, now,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create contract"})
	}

	// Chat opens once the request is accepted
	threadID := uuid.New().String()
	_, err = tx.Exec(ctx,
		`INSERT INTO threads (id, hire_request_id, service_id, buyer_id, student_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		threadID, requestID, serviceID, buyerID, studentID, now,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create chat thread"})
	}

	_ = notifications.Insert(ctx, tx, buyerID, notifications.TypeOrderUpdate,
		"Hire request accepted", "Your hire request was accepted. You can now pay and chat with the seller.", orderID)

	if err = tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	// Email the buyer (best-effort)
	var buyerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, buyerID).Scan(&buyerEmail)
	if buyerEmail != "" {
		_ = alerts.EnqueueHireAccepted(requestID, buyerID, studentID, buyerEmail, priceCents)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Hire request accepted",
		"order_id":    orderID,
		"contract_id": contractID,
		"thread_id":   threadID,
	})
}

// =========================
// RejectHireRequest - service owner declines; nothing else is created
// =========================
func RejectHireRequest(c echo.Context) error {
	actorID, ok := c.Get("user_id").(string)
	if !ok || actorID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hire request id"})
	}

	ctx := context.Background()

	var buyerID, studentID, status string
	var priceCents int64
	err := db.Conn.QueryRow(ctx,
		`SELECT buyer_id, student_id, price_cents, status FROM hire_requests WHERE id = $1`,
		requestID,
	).Scan(&buyerID, &studentID, &priceCents, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hire request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch hire request"})
	}

	if studentID != actorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the service owner can reject"})
	}
	if !CanTransition(status, StatusRejected) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hire request is not pending", "status": status})
	}

	// Guard on status in the WHERE clause so a concurrent accept can't be overwritten
	ct, err := db.Conn.Exec(ctx,
		`UPDATE hire_requests SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		StatusRejected, requestID, StatusPending,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update hire request"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hire request is not pending"})
	}

	_ = notifications.Insert(ctx, db.Conn, buyerID, notifications.TypeOrderUpdate,
		"Hire request declined", "The seller declined your hire request.", requestID)

	var buyerEmail string
	_ = db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, buyerID).Scan(&buyerEmail)
	if buyerEmail != "" {
		_ = alerts.EnqueueHireRejected(requestID, buyerID, studentID, buyerEmail, priceCents)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Hire request rejected"})
}

// =========================
// CancelHireRequest - buyer withdraws a still-pending request
// =========================
func CancelHireRequest(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing hire request id"})
	}

	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE hire_requests SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND buyer_id = $3 AND status = $4`,
		StatusCancelled, requestID, buyerID, StatusPending,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel hire request"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hire request not found, not yours, or not pending"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Hire request cancelled"})
}

// =========================
// GetUserHireRequests - both sides of the table
// =========================
func GetUserHireRequests(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, buyer_id, student_id, service_id, COALESCE(message, ''), price_cents, status, created_at, updated_at
		 FROM hire_requests WHERE buyer_id = $1 OR student_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch hire requests"})
	}
	defer rows.Close()

	requests := []HireRequest{}
	for rows.Next() {
		var r HireRequest
		if err := rows.Scan(&r.ID, &r.BuyerID, &r.StudentID, &r.ServiceID, &r.Message, &r.PriceCents,
			&r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		requests = append(requests, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"hire_requests": requests})
}
