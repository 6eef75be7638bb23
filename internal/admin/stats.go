package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, students, buyers, services, hireRequests, orders, contracts, reviews int
	var pendingVerifications int
	var releasedPayoutCents int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'student'`).Scan(&students)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'buyer'`).Scan(&buyers)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&services)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM hire_requests`).Scan(&hireRequests)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM contracts`).Scan(&contracts)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&reviews)
	_ = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'student' AND has_uploaded_id AND NOT COALESCE(is_verified, FALSE)`,
	).Scan(&pendingVerifications)
	_ = db.Conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(student_payout_cents), 0) FROM contracts WHERE payout_status = 'RELEASED'`,
	).Scan(&releasedPayoutCents)

	return c.JSON(http.StatusOK, echo.Map{
		"users":                 users,
		"students":              students,
		"buyers":                buyers,
		"services":              services,
		"hire_requests":         hireRequests,
		"orders":                orders,
		"contracts":             contracts,
		"reviews":               reviews,
		"pending_verifications": pendingVerifications,
		"released_payout_cents": releasedPayoutCents,
	})
}
