package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

func enqueue(taskType string, payload any) error {
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(taskType, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

func appURL() string {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return strings.TrimRight(base, "/")
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	subject := fmt.Sprintf("Welcome to CollaboTree, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining CollaboTree.\n\nOpen CollaboTree: %s", name, appURL())

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	return enqueue(TaskWelcomeEmail, WelcomeEmailPayload{
		UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueuePasswordReset mails the reset link
func EnqueuePasswordReset(userID, email, resetURL string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Reset your CollaboTree password",
		Body:    fmt.Sprintf("Use this link to reset your password:\n\n%s\n\nIf you didn't ask for this, ignore this email.", resetURL),
	}
	return enqueue(TaskPasswordReset, PasswordResetPayload{
		UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now(),
	})
}

// EnqueueHireRequestNew notifies the student that a buyer wants to hire them
func EnqueueHireRequestNew(requestID, buyerID, studentID, studentEmail string, priceCents int64) error {
	env := EmailEnvelope{
		To:      studentEmail,
		Subject: "You have a new hire request",
		Body:    fmt.Sprintf("A buyer requested your service for %s. Review it here: %s/dashboard/requests", dollars(priceCents), appURL()),
	}
	return enqueue(TaskHireRequestNew, HireEventPayload{
		HireRequestID: requestID, BuyerID: buyerID, StudentID: studentID,
		Email: studentEmail, PriceCents: priceCents, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueHireAccepted notifies the buyer after the student accepts
func EnqueueHireAccepted(requestID, buyerID, studentID, buyerEmail string, priceCents int64) error {
	env := EmailEnvelope{
		To:      buyerEmail,
		Subject: "Your hire request was accepted",
		Body:    fmt.Sprintf("Your request for %s was accepted. Pay to get the work started: %s/dashboard/orders", dollars(priceCents), appURL()),
	}
	return enqueue(TaskHireAccepted, HireEventPayload{
		HireRequestID: requestID, BuyerID: buyerID, StudentID: studentID,
		Email: buyerEmail, PriceCents: priceCents, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueHireRejected notifies the buyer after the student declines
func EnqueueHireRejected(requestID, buyerID, studentID, buyerEmail string, priceCents int64) error {
	env := EmailEnvelope{
		To:      buyerEmail,
		Subject: "Your hire request was declined",
		Body:    "The seller declined your hire request. Browse other services: " + appURL(),
	}
	return enqueue(TaskHireRejected, HireEventPayload{
		HireRequestID: requestID, BuyerID: buyerID, StudentID: studentID,
		Email: buyerEmail, PriceCents: priceCents, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueOrderPaid tells the student the money is in escrow
func EnqueueOrderPaid(orderID, buyerID, studentID, studentEmail string, priceCents int64) error {
	env := EmailEnvelope{
		To:      studentEmail,
		Subject: "Order paid - you can start working",
		Body:    fmt.Sprintf("Order %s was paid (%s, held in escrow).", orderID, dollars(priceCents)),
	}
	return enqueue(TaskOrderPaid, OrderEventPayload{
		OrderID: orderID, BuyerID: buyerID, StudentID: studentID,
		Email: studentEmail, PriceCents: priceCents, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueOrderDelivered notifies the buyer of delivery
func EnqueueOrderDelivered(orderID, buyerID, studentID, buyerEmail string) error {
	env := EmailEnvelope{
		To:      buyerEmail,
		Subject: "Your order was delivered",
		Body:    fmt.Sprintf("Order %s was marked delivered. Review the work and complete the order.", orderID),
	}
	return enqueue(TaskOrderDelivered, OrderEventPayload{
		OrderID: orderID, BuyerID: buyerID, StudentID: studentID,
		Email: buyerEmail, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueOrderCompleted notifies the student of completion
func EnqueueOrderCompleted(orderID, buyerID, studentID, studentEmail string) error {
	env := EmailEnvelope{
		To:      studentEmail,
		Subject: "Order completed",
		Body:    fmt.Sprintf("Order %s was completed by the buyer. Your payout will be released by an admin.", orderID),
	}
	return enqueue(TaskOrderCompleted, OrderEventPayload{
		OrderID: orderID, BuyerID: buyerID, StudentID: studentID,
		Email: studentEmail, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueuePayoutReleased tells the student their payout went out
func EnqueuePayoutReleased(contractID, studentID, studentEmail string, payoutCents int64) error {
	env := EmailEnvelope{
		To:      studentEmail,
		Subject: "Your payout has been released",
		Body:    fmt.Sprintf("Your payout of %s has been released.", dollars(payoutCents)),
	}
	return enqueue(TaskPayoutReleased, PayoutReleasedPayload{
		ContractID: contractID, StudentID: studentID, Email: studentEmail,
		PayoutCents: payoutCents, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueVerificationApproved congratulates a verified student
func EnqueueVerificationApproved(studentID, email string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your student ID was verified",
		Body:    "Your student ID was approved. Your listings now show a verified badge.",
	}
	return enqueue(TaskVerificationApproved, VerificationPayload{
		StudentID: studentID, Email: email, Approved: true, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueVerificationRejected explains why the upload was rejected
func EnqueueVerificationRejected(studentID, email, reason string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your student ID verification was rejected",
		Body:    fmt.Sprintf("Reason: %s\n\nYou can upload a new ID from your dashboard: %s/dashboard/verification", reason, appURL()),
	}
	return enqueue(TaskVerificationRejected, VerificationPayload{
		StudentID: studentID, Email: email, Approved: false, Reason: reason, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueMessageNew pings the chat recipient
func EnqueueMessageNew(threadID, senderID, recipientID, recipientEmail, body string) error {
	preview := body
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	env := EmailEnvelope{
		To:      recipientEmail,
		Subject: "New message on CollaboTree",
		Body:    fmt.Sprintf("You have a new message:\n\n%s\n\nReply here: %s/dashboard/messages", preview, appURL()),
	}
	return enqueue(TaskMessageNew, MessageNewPayload{
		ThreadID: threadID, SenderID: senderID, Recipient: recipientID,
		Email: recipientEmail, Body: body, Envelope: env, SentAt: time.Now(),
	})
}
