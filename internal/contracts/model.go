package contracts

import (
	"os"
	"strconv"
	"time"
)

// Payment and payout statuses
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"

	PayoutAwaiting        = "AWAITING"
	PayoutReadyForRelease = "READY_FOR_RELEASE"
	PayoutReleased        = "RELEASED"
)

// Contract is the escrow record derived from an accepted hire request.
// The platform itself is the escrow holder; no per-user balances exist.
type Contract struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"order_id"`
	HireRequestID      string     `json:"hire_request_id"`
	BuyerID            string     `json:"buyer_id"`
	StudentID          string     `json:"student_id"`
	PriceCents         int64      `json:"price_cents"`
	PlatformFeeCents   int64      `json:"platform_fee_cents"`
	StudentPayoutCents int64      `json:"student_payout_cents"`
	PaymentStatus      string     `json:"payment_status"`
	PayoutStatus       string     `json:"payout_status"`
	EscrowedAt         *time.Time `json:"escrowed_at,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	ReleasedAt         *time.Time `json:"released_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

const defaultFeeBps = 1000 // 10%

// FeeBps returns the platform fee in basis points, PLATFORM_FEE_BPS override
func FeeBps() int64 {
	if v := os.Getenv("PLATFORM_FEE_BPS"); v != "" {
		if bps, err := strconv.ParseInt(v, 10, 64); err == nil && bps >= 0 && bps <= 10000 {
			return bps
		}
	}
	return defaultFeeBps
}

// SplitFee divides a price into platform fee and student payout. The two
// parts always sum back to priceCents; rounding goes to the student.
func SplitFee(priceCents, feeBps int64) (feeCents, payoutCents int64) {
	feeCents = priceCents * feeBps / 10000
	payoutCents = priceCents - feeCents
	return feeCents, payoutCents
}

// CanRelease reports whether a payout release is allowed. Release on an
// already-RELEASED contract must be rejected, never re-applied.
func CanRelease(paymentStatus, payoutStatus string) bool {
	return paymentStatus == PaymentPaid && payoutStatus == PayoutReadyForRelease
}
