package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// Notification types
const (
	TypeHireRequest = "HIRE_REQUEST"
	TypeOrderUpdate = "ORDER_UPDATE"
	TypeReview      = "REVIEW"
	TypeSystem      = "SYSTEM"
)

// Execer is satisfied by both *pgxpool.Pool and pgx.Tx, so notifications can
// ride inside the transaction that caused them.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert writes an in-app notification row. reference may be empty.
func Insert(ctx context.Context, q Execer, userID, notifType, title, body, reference string) error {
	var ref any
	if reference != "" {
		ref = reference
	}
	_, err := q.Exec(ctx, `
        INSERT INTO notifications (user_id, type, title, body, reference)
        VALUES ($1, $2, $3, $4, $5)`,
		userID, notifType, title, body, ref,
	)
	return err
}
