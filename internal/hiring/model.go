package hiring

import "time"

// Hire request statuses. PENDING is the only non-terminal state.
const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// HireRequest is a buyer's request to engage a student's service
type HireRequest struct {
	ID         string    `json:"id"`
	BuyerID    string    `json:"buyer_id"`
	StudentID  string    `json:"student_id"`
	ServiceID  string    `json:"service_id"`
	Message    string    `json:"message,omitempty"`
	PriceCents int64     `json:"price_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsTerminal reports whether a request can never change status again
func IsTerminal(status string) bool {
	switch status {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a status change is allowed. Only a PENDING
// request may move, and only into a terminal state.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return IsTerminal(to)
}
