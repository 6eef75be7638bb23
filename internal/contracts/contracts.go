package contracts

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

const contractColumns = `id, order_id, hire_request_id, buyer_id, student_id, price_cents,
	platform_fee_cents, student_payout_cents, payment_status, payout_status,
	escrowed_at, paid_at, released_at, created_at`

func scanContract(row pgx.Row) (Contract, error) {
	var k Contract
	err := row.Scan(&k.ID, &k.OrderID, &k.HireRequestID, &k.BuyerID, &k.StudentID, &k.PriceCents,
		&k.PlatformFeeCents, &k.StudentPayoutCents, &k.PaymentStatus, &k.PayoutStatus,
		&k.EscrowedAt, &k.PaidAt, &k.ReleasedAt, &k.CreatedAt)
	return k, err
}

// =========================
// GetUserContracts - own contracts, both sides
// =========================
func GetUserContracts(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+contractColumns+`
		 FROM contracts WHERE buyer_id = $1 OR student_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch contracts"})
	}
	defer rows.Close()

	out := []Contract{}
	for rows.Next() {
		k, err := scanContract(rows)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		out = append(out, k)
	}

	return c.JSON(http.StatusOK, echo.Map{"contracts": out})
}

// =========================
// GetContract - party- or admin-scoped fetch
// =========================
func GetContract(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	contractID := c.Param("id")
	if contractID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing contract id"})
	}

	k, err := scanContract(db.Conn.QueryRow(context.Background(),
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1`, contractID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contract not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch contract"})
	}

	if role != "admin" && uid != k.BuyerID && uid != k.StudentID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this contract"})
	}

	return c.JSON(http.StatusOK, k)
}

// =========================
// AdminListContracts - escrow oversight with status filters
// =========================
func AdminListContracts(c echo.Context) error {
	payment := c.QueryParam("payment_status")
	payout := c.QueryParam("payout_status")

	query := `SELECT ` + contractColumns + ` FROM contracts`
	var where []string
	var args []any
	if payment != "" {
		args = append(args, payment)
		where = append(where, "payment_status = $1")
	}
	if payout != "" {
		args = append(args, payout)
		if len(args) == 2 {
			where = append(where, "payout_status = $2")
		} else {
			where = append(where, "payout_status = $1")
		}
	}
	if len(where) == 1 {
		query += " WHERE " + where[0]
	} else if len(where) == 2 {
		query += " WHERE " + where[0] + " AND " + where[1]
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch contracts"})
	}
	defer rows.Close()

	out := []Contract{}
	for rows.Next() {
		k, err := scanContract(rows)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		out = append(out, k)
	}

	return c.JSON(http.StatusOK, echo.Map{"contracts": out})
}
