package reviews

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
	"github.com/collabotree/collabotree/internal/notifications"
)

// Review is a buyer's rating of a completed order
type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ServiceID string    `json:"service_id"`
	BuyerID   string    `json:"buyer_id"`
	StudentID string    `json:"student_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// =========================
// CreateReview - buyer reviews a completed order, once
// =========================
func CreateReview(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := context.Background()

	var buyerID, studentID, serviceID, status string
	err := db.Conn.QueryRow(ctx,
		`SELECT buyer_id, student_id, service_id, status FROM orders WHERE id = $1`, orderID,
	).Scan(&buyerID, &studentID, &serviceID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}

	if buyerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the buyer can review"})
	}
	if status != "COMPLETED" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is not completed", "status": status})
	}

	reviewID := uuid.New().String()
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO reviews (id, order_id, service_id, buyer_id, student_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reviewID, orderID, serviceID, buyerID, studentID, req.Rating, req.Comment,
	)
	if err != nil {
		// unique order_id means one review per order
		return c.JSON(http.StatusConflict, echo.Map{"error": "order already reviewed"})
	}

	_ = notifications.Insert(ctx, db.Conn, studentID, notifications.TypeReview,
		"New review", "A buyer left a review on your service.", reviewID)

	return c.JSON(http.StatusCreated, echo.Map{"review_id": reviewID, "message": "review created"})
}

// =========================
// GetSellerReviews - public listing with aggregate
// =========================
func GetSellerReviews(c echo.Context) error {
	sellerID := c.Param("id")
	if sellerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing seller id"})
	}

	ctx := context.Background()

	rows, err := db.Conn.Query(ctx,
		`SELECT id, order_id, service_id, buyer_id, student_id, rating, COALESCE(comment, ''), created_at
		 FROM reviews WHERE student_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.OrderID, &r.ServiceID, &r.BuyerID, &r.StudentID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		out = append(out, r)
	}

	var avg float64
	_ = db.Conn.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating)::float, 0) FROM reviews WHERE student_id = $1`, sellerID).Scan(&avg)

	return c.JSON(http.StatusOK, echo.Map{"reviews": out, "avg_rating": avg})
}

// =========================
// GetOrderReview - party-scoped fetch of a single order's review
// =========================
func GetOrderReview(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	var r Review
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, order_id, service_id, buyer_id, student_id, rating, COALESCE(comment, ''), created_at
		 FROM reviews WHERE order_id = $1`, orderID,
	).Scan(&r.ID, &r.OrderID, &r.ServiceID, &r.BuyerID, &r.StudentID, &r.Rating, &r.Comment, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch review"})
	}

	if uid != r.BuyerID && uid != r.StudentID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this order"})
	}

	return c.JSON(http.StatusOK, r)
}
