package catalog

import "time"

// Service is a student seller's offering
type Service struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PriceCents     int64     `json:"price_cents"`
	CoverURL       string    `json:"cover_url,omitempty"`
	Category       string    `json:"category,omitempty"`
	IsActive       bool      `json:"is_active"`
	IsTopSelection bool      `json:"is_top_selection"`
	CreatedAt      time.Time `json:"created_at"`
}

// ServiceSummary is used in discovery responses with aggregated fields
type ServiceSummary struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SellerName     string    `json:"seller_name"`
	SellerVerified bool      `json:"seller_verified"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PriceCents     int64     `json:"price_cents"`
	CoverURL       string    `json:"cover_url,omitempty"`
	Category       string    `json:"category,omitempty"`
	IsTopSelection bool      `json:"is_top_selection"`
	AvgRating      float64   `json:"avg_rating"`
	CreatedAt      time.Time `json:"created_at"`
}
