package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFee(t *testing.T) {
	cases := []struct {
		price, bps  int64
		fee, payout int64
	}{
		{10000, 1000, 1000, 9000},
		{5000, 1000, 500, 4500},
		{100, 1000, 10, 90},
		// rounding goes to the student
		{99, 1000, 9, 90},
		{1, 1000, 0, 1},
		{10000, 0, 0, 10000},
		{10000, 10000, 10000, 0},
	}
	for _, tc := range cases {
		fee, payout := SplitFee(tc.price, tc.bps)
		assert.Equal(t, tc.fee, fee, "fee for price=%d bps=%d", tc.price, tc.bps)
		assert.Equal(t, tc.payout, payout, "payout for price=%d bps=%d", tc.price, tc.bps)
		assert.Equal(t, tc.price, fee+payout, "fee and payout must sum to price")
	}
}

func TestFeeBps(t *testing.T) {
	t.Setenv("PLATFORM_FEE_BPS", "")
	assert.Equal(t, int64(1000), FeeBps())

	t.Setenv("PLATFORM_FEE_BPS", "2500")
	assert.Equal(t, int64(2500), FeeBps())

	t.Setenv("PLATFORM_FEE_BPS", "0")
	assert.Equal(t, int64(0), FeeBps())

	// out-of-range and garbage fall back to the default
	t.Setenv("PLATFORM_FEE_BPS", "20000")
	assert.Equal(t, int64(1000), FeeBps())

	t.Setenv("PLATFORM_FEE_BPS", "-5")
	assert.Equal(t, int64(1000), FeeBps())

	t.Setenv("PLATFORM_FEE_BPS", "ten percent")
	assert.Equal(t, int64(1000), FeeBps())
}

func TestCanRelease(t *testing.T) {
	assert.True(t, CanRelease(PaymentPaid, PayoutReadyForRelease))
	assert.False(t, CanRelease(PaymentPending, PayoutReadyForRelease))
	assert.False(t, CanRelease(PaymentPaid, PayoutAwaiting))
	// a released contract can never be released again
	assert.False(t, CanRelease(PaymentPaid, PayoutReleased))
	assert.False(t, CanRelease(PaymentPending, PayoutAwaiting))
}
