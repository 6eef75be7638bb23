package orders

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

const orderColumns = `id, hire_request_id, service_id, buyer_id, student_id, price_cents, status, paid_at, created_at, updated_at`

// =========================
// GetUserOrders - all orders for a user (as buyer or student)
// =========================
func GetUserOrders(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+orderColumns+`
		 FROM orders WHERE buyer_id = $1 OR student_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.HireRequestID, &o.ServiceID, &o.BuyerID, &o.StudentID,
			&o.PriceCents, &o.Status, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		orders = append(orders, o)
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// =========================
// GetOrder - single order; party-scoped, admins see everything
// =========================
func GetOrder(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var o Order
	err := db.Conn.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID).
		Scan(&o.ID, &o.HireRequestID, &o.ServiceID, &o.BuyerID, &o.StudentID,
			&o.PriceCents, &o.Status, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	if role != "admin" && uid != o.BuyerID && uid != o.StudentID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this order"})
	}

	return c.JSON(http.StatusOK, o)
}
