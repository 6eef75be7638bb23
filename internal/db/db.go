package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Ensure schema pieces in dependency order
	ensureUsersTable()
	ensureServicesTable()
	ensureHireRequestsTable()
	ensureOrdersTable()
	ensureContractsTable()
	ensureReviewsTable()
	ensureNotificationsTable()
	ensureThreadsTables()
	ensureTransactionsTable()
}

// ensureUsersTable creates users and patches verification columns onto older installs
func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'buyer' CHECK (role IN ('student','buyer','admin')),
            bio TEXT,
            university TEXT,
            skills TEXT[],
            avatar_url TEXT,
            is_active BOOLEAN DEFAULT TRUE,
            is_verified BOOLEAN DEFAULT FALSE,
            has_uploaded_id BOOLEAN DEFAULT FALSE,
            id_card_url TEXT,
            verification_note TEXT,
            verified_at TIMESTAMP WITH TIME ZONE NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create users table: %v", err)
		return
	}

	// Older databases predate the verification columns
	var exists bool
	_ = Conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_schema = 'public' AND table_name = 'users' AND column_name = 'has_uploaded_id'
        )`).Scan(&exists)
	if !exists {
		if _, err := Conn.Exec(ctx, `
            ALTER TABLE users
            ADD COLUMN IF NOT EXISTS is_verified BOOLEAN DEFAULT FALSE,
            ADD COLUMN IF NOT EXISTS has_uploaded_id BOOLEAN DEFAULT FALSE,
            ADD COLUMN IF NOT EXISTS id_card_url TEXT,
            ADD COLUMN IF NOT EXISTS verification_note TEXT,
            ADD COLUMN IF NOT EXISTS verified_at TIMESTAMP WITH TIME ZONE NULL`); err != nil {
			log.Printf("failed to add verification columns: %v", err)
		}
	}
}

// ensureServicesTable creates services with curation/moderation columns
func ensureServicesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS services (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT,
            price_cents BIGINT NOT NULL CHECK (price_cents > 0),
            cover_url TEXT,
            category TEXT,
            is_active BOOLEAN DEFAULT TRUE,
            is_top_selection BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_services_owner ON services(user_id);
        CREATE INDEX IF NOT EXISTS idx_services_active ON services(is_active) WHERE is_active;
    `)
	if err != nil {
		log.Printf("failed to create services table: %v", err)
	}
}

// ensureHireRequestsTable creates hire_requests plus the partial unique index
// that backs the one-pending-request-per-(buyer,service) rule
func ensureHireRequestsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS hire_requests (
            id UUID PRIMARY KEY,
            buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            message TEXT,
            price_cents BIGINT NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING'
                CHECK (status IN ('PENDING','ACCEPTED','REJECTED','CANCELLED')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE UNIQUE INDEX IF NOT EXISTS idx_hire_requests_one_pending
            ON hire_requests(buyer_id, service_id) WHERE status = 'PENDING';
        CREATE INDEX IF NOT EXISTS idx_hire_requests_student ON hire_requests(student_id);
    `)
	if err != nil {
		log.Printf("failed to create hire_requests table: %v", err)
	}
}

// ensureOrdersTable creates orders with the canonical status constraint
func ensureOrdersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            hire_request_id UUID NOT NULL UNIQUE REFERENCES hire_requests(id) ON DELETE CASCADE,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            price_cents BIGINT NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING'
                CHECK (status IN ('PENDING','IN_PROGRESS','DELIVERED','COMPLETED','CANCELLED')),
            paid_at TIMESTAMP WITH TIME ZONE NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id);
        CREATE INDEX IF NOT EXISTS idx_orders_student ON orders(student_id);
    `)
	if err != nil {
		log.Printf("failed to create orders table: %v", err)
	}
}

// ensureContractsTable creates the escrow contract records
func ensureContractsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS contracts (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
            hire_request_id UUID NOT NULL REFERENCES hire_requests(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            price_cents BIGINT NOT NULL,
            platform_fee_cents BIGINT NOT NULL DEFAULT 0,
            student_payout_cents BIGINT NOT NULL DEFAULT 0,
            payment_status TEXT NOT NULL DEFAULT 'PENDING'
                CHECK (payment_status IN ('PENDING','PAID')),
            payout_status TEXT NOT NULL DEFAULT 'AWAITING'
                CHECK (payout_status IN ('AWAITING','READY_FOR_RELEASE','RELEASED')),
            escrowed_at TIMESTAMP WITH TIME ZONE NULL,
            paid_at TIMESTAMP WITH TIME ZONE NULL,
            released_at TIMESTAMP WITH TIME ZONE NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_contracts_payout ON contracts(payout_status);
    `)
	if err != nil {
		log.Printf("failed to create contracts table: %v", err)
	}
}

// ensureReviewsTable creates reviews, one per order
func ensureReviewsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_student ON reviews(student_id);
    `)
	if err != nil {
		log.Printf("failed to create reviews table: %v", err)
	}
}

// ensureNotificationsTable creates notifications table if it doesn't exist
func ensureNotificationsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS notifications (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type TEXT NOT NULL CHECK (type IN ('HIRE_REQUEST','ORDER_UPDATE','REVIEW','SYSTEM')),
            title TEXT NOT NULL,
            body TEXT,
            reference UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            read_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id) WHERE read_at IS NULL;
    `)
	if err != nil {
		log.Printf("failed to create notifications table: %v", err)
	}
}

// ensureThreadsTables creates chat threads and append-only messages
func ensureThreadsTables() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS threads (
            id UUID PRIMARY KEY,
            hire_request_id UUID NOT NULL UNIQUE REFERENCES hire_requests(id) ON DELETE CASCADE,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            msg_count INTEGER NOT NULL DEFAULT 0,
            last_message_at TIMESTAMP WITH TIME ZONE NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            thread_id UUID NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            recipient_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            body TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_messages_thread_created ON messages(thread_id, created_at);
    `)
	if err != nil {
		log.Printf("failed to create threads/messages tables: %v", err)
	}
}

// ensureTransactionsTable creates the append-only money movement log
func ensureTransactionsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount_cents BIGINT NOT NULL,
            type TEXT NOT NULL CHECK (type IN ('debit','credit')),
            status TEXT NOT NULL CHECK (status IN ('escrow_hold','escrow_release','payout','platform_fee','refund')),
            reference UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at);
    `)
	if err != nil {
		log.Printf("failed to create transactions table: %v", err)
	}
}
