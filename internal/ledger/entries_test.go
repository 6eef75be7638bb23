package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseEntries(t *testing.T) {
	entries := ReleaseEntries("student-1", "order-1", 10000, 1000)
	assert.Len(t, entries, 2)

	// every row targets the student; the buyer was already debited at escrow
	var net int64
	for _, e := range entries {
		assert.Equal(t, "student-1", e.UserID)
		assert.Equal(t, "order-1", e.Reference)
		switch e.Type {
		case "credit":
			net += e.AmountCents
		case "debit":
			net -= e.AmountCents
		default:
			t.Fatalf("unexpected entry type %q", e.Type)
		}
	}

	// gross in, fee out: the student nets exactly the payout
	assert.Equal(t, int64(9000), net)

	assert.Equal(t, "escrow_release", entries[0].Status)
	assert.Equal(t, int64(10000), entries[0].AmountCents)
	assert.Equal(t, "platform_fee", entries[1].Status)
	assert.Equal(t, int64(1000), entries[1].AmountCents)
}
