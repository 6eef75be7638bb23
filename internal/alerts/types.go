package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail         = "email:welcome"
	TaskPasswordReset        = "email:password_reset"
	TaskHireRequestNew       = "email:hire_request_new"
	TaskHireAccepted         = "email:hire_accepted"
	TaskHireRejected         = "email:hire_rejected"
	TaskOrderPaid            = "email:order_paid"
	TaskOrderDelivered       = "email:order_delivered"
	TaskOrderCompleted       = "email:order_completed"
	TaskPayoutReleased       = "email:payout_released"
	TaskVerificationApproved = "email:verification_approved"
	TaskVerificationRejected = "email:verification_rejected"
	TaskMessageNew           = "email:message_new"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Hire event payload, shared by the new/accepted/rejected tasks
type HireEventPayload struct {
	HireRequestID string        `json:"hire_request_id"`
	BuyerID       string        `json:"buyer_id"`
	StudentID     string        `json:"student_id"`
	Email         string        `json:"email"`
	PriceCents    int64         `json:"price_cents"`
	Envelope      EmailEnvelope `json:"envelope"`
	SentAt        time.Time     `json:"sent_at"`
}

// Order event payload (paid / delivered / completed)
type OrderEventPayload struct {
	OrderID    string        `json:"order_id"`
	BuyerID    string        `json:"buyer_id"`
	StudentID  string        `json:"student_id"`
	Email      string        `json:"email"`
	PriceCents int64         `json:"price_cents,omitempty"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

// Payout released payload (sent to the student)
type PayoutReleasedPayload struct {
	ContractID  string        `json:"contract_id"`
	StudentID   string        `json:"student_id"`
	Email       string        `json:"email"`
	PayoutCents int64         `json:"payout_cents"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

// Verification decision payload
type VerificationPayload struct {
	StudentID string        `json:"student_id"`
	Email     string        `json:"email"`
	Approved  bool          `json:"approved"`
	Reason    string        `json:"reason,omitempty"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Message new payload (sent to recipient on new chat message)
type MessageNewPayload struct {
	ThreadID  string        `json:"thread_id"`
	SenderID  string        `json:"sender_id"`
	Recipient string        `json:"recipient"`
	Email     string        `json:"email"`
	Body      string        `json:"body"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}
