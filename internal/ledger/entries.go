package ledger

// Entry is one money movement waiting to be written to the transactions log
type Entry struct {
	UserID      string
	AmountCents int64
	Type        string
	Status      string
	Reference   string
}

// ReleaseEntries builds the ledger rows for a payout release. The escrowed
// gross moves to the student and the platform fee comes out of that gross,
// so the student's rows net to the payout and the buyer, already debited the
// full price at escrow_hold, is never charged again.
func ReleaseEntries(studentID, orderID string, priceCents, feeCents int64) []Entry {
	return []Entry{
		{UserID: studentID, AmountCents: priceCents, Type: "credit", Status: "escrow_release", Reference: orderID},
		{UserID: studentID, AmountCents: feeCents, Type: "debit", Status: "platform_fee", Reference: orderID},
	}
}
