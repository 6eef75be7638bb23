package catalog

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabotree/collabotree/internal/db"
)

type TopSelectionRequest struct {
	IsTopSelection bool `json:"is_top_selection"`
}

// UpdateTopSelection - admin toggles the featured flag on a listing.
// Inactive services cannot be featured.
func UpdateTopSelection(c echo.Context) error {
	serviceID := c.Param("id")
	if serviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing service id"})
	}

	var req TopSelectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := context.Background()

	var isActive bool
	err := db.Conn.QueryRow(ctx, `SELECT is_active FROM services WHERE id = $1`, serviceID).Scan(&isActive)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}
	if req.IsTopSelection && !isActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "inactive service cannot be featured"})
	}

	_, err = db.Conn.Exec(ctx,
		`UPDATE services SET is_top_selection = $1, updated_at = NOW() WHERE id = $2`,
		req.IsTopSelection, serviceID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update top selection"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"service_id":       serviceID,
		"is_top_selection": req.IsTopSelection,
	})
}
