package orders

import "time"

// Order statuses
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDelivered  = "DELIVERED"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Order is the payable unit derived from an accepted hire request
type Order struct {
	ID            string     `json:"id"`
	HireRequestID string     `json:"hire_request_id"`
	ServiceID     string     `json:"service_id"`
	BuyerID       string     `json:"buyer_id"`
	StudentID     string     `json:"student_id"`
	PriceCents    int64      `json:"price_cents"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AllowedTransition is the role-aware status table. The student moves work
// forward, the buyer signs it off or backs out before paying. Payment is a
// separate operation, not a status write.
func AllowedTransition(actorRole, from, to string) bool {
	switch actorRole {
	case "student":
		return from == StatusInProgress && to == StatusDelivered
	case "buyer":
		switch {
		case from == StatusDelivered && to == StatusCompleted:
			return true
		case from == StatusPending && to == StatusCancelled:
			return true
		}
	}
	return false
}
