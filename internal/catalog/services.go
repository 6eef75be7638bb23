package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

// CreateService allows a verified student to list a new service
func CreateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	if role != "student" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only students can list services"})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents"`
		CoverURL    string `json:"cover_url"`
		Category    string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title == "" || req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive price_cents are required"})
	}

	// Only ID-verified students may list
	var isVerified bool
	if err := db.Conn.QueryRow(context.Background(),
		`SELECT COALESCE(is_verified, FALSE) FROM users WHERE id = $1`, uid,
	).Scan(&isVerified); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check verification"})
	}
	if !isVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "student ID verification required before listing"})
	}

	serviceID := uuid.New().String()

	_, err := db.Conn.Exec(
		context.Background(),
		`INSERT INTO services (id, user_id, title, description, price_cents, cover_url, category, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)`,
		serviceID, uid, req.Title, req.Description, req.PriceCents, req.CoverURL, req.Category, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"service_id": serviceID,
		"message":    "service created successfully",
	})
}

// UpdateService lets the owner edit listing fields
func UpdateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service id"})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents"`
		CoverURL    string `json:"cover_url"`
		Category    string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}

	ct, err := db.Conn.Exec(context.Background(), `
		UPDATE services
		SET title = COALESCE(NULLIF($1, ''), title),
		    description = COALESCE(NULLIF($2, ''), description),
		    price_cents = CASE WHEN $3 > 0 THEN $3 ELSE price_cents END,
		    cover_url = COALESCE(NULLIF($4, ''), cover_url),
		    category = COALESCE(NULLIF($5, ''), category),
		    updated_at = NOW()
		WHERE id = $6 AND user_id = $7`,
		req.Title, req.Description, req.PriceCents, req.CoverURL, req.Category, serviceID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service updated"})
}

// DeactivateService soft-deletes a listing. Owner or admin. A deactivated
// service can never stay featured, so is_top_selection is cleared too.
func DeactivateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service id"})
	}

	var query string
	var args []any
	if role == "admin" {
		query = `UPDATE services SET is_active = FALSE, is_top_selection = FALSE, updated_at = NOW() WHERE id = $1`
		args = []any{serviceID}
	} else {
		query = `UPDATE services SET is_active = FALSE, is_top_selection = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
		args = []any{serviceID, uid}
	}

	ct, err := db.Conn.Exec(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate service"})
	}
	if ct.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service deactivated"})
}

// GetAllServices returns active services for public discovery
func GetAllServices(c echo.Context) error {
	q := c.QueryParam("q")
	category := c.QueryParam("category")
	minPrice := c.QueryParam("min_price_cents")
	maxPrice := c.QueryParam("max_price_cents")
	topOnly := c.QueryParam("top") == "true"
	sort := c.QueryParam("sort")
	limit := 20
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	query := `SELECT s.id, s.user_id, u.name, COALESCE(u.is_verified, FALSE),
                     s.title, COALESCE(s.description, ''), s.price_cents, COALESCE(s.cover_url, ''), COALESCE(s.category, ''),
                     s.is_top_selection, s.created_at,
                     COALESCE(AVG(r.rating)::float, 0) AS avg_rating
              FROM services s
              JOIN users u ON u.id = s.user_id
              LEFT JOIN reviews r ON r.service_id = s.id`

	where := []string{"s.is_active", "COALESCE(u.is_active, TRUE)"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q != "" {
		p := arg("%" + q + "%")
		where = append(where, fmt.Sprintf("(s.title ILIKE %s OR s.description ILIKE %s)", p, p))
	}
	if category != "" {
		where = append(where, "s.category = "+arg(category))
	}
	if minPrice != "" {
		if v, err := strconv.ParseInt(minPrice, 10, 64); err == nil {
			where = append(where, "s.price_cents >= "+arg(v))
		}
	}
	if maxPrice != "" {
		if v, err := strconv.ParseInt(maxPrice, 10, 64); err == nil {
			where = append(where, "s.price_cents <= "+arg(v))
		}
	}
	if topOnly {
		where = append(where, "s.is_top_selection")
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += ` GROUP BY s.id, u.name, u.is_verified`

	switch sort {
	case "price_asc":
		query += " ORDER BY s.price_cents ASC"
	case "price_desc":
		query += " ORDER BY s.price_cents DESC"
	case "rating":
		query += " ORDER BY avg_rating DESC"
	default:
		// Featured first, newest after
		query += " ORDER BY s.is_top_selection DESC, s.created_at DESC"
	}
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(limit), arg(offset))

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch services"})
	}
	defer rows.Close()

	services := []ServiceSummary{}
	for rows.Next() {
		var s ServiceSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.SellerName, &s.SellerVerified, &s.Title, &s.Description,
			&s.PriceCents, &s.CoverURL, &s.Category, &s.IsTopSelection, &s.CreatedAt, &s.AvgRating); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		services = append(services, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

// GetUserServices returns the seller's own listings, inactive ones included
func GetUserServices(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, user_id, title, COALESCE(description, ''), price_cents, COALESCE(cover_url, ''),
		       COALESCE(category, ''), is_active, is_top_selection, created_at
		FROM services WHERE user_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch services"})
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.PriceCents, &s.CoverURL,
			&s.Category, &s.IsActive, &s.IsTopSelection, &s.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse record"})
		}
		services = append(services, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}
