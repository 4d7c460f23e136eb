// Package dbtest opens throwaway SQLite databases carrying the same tables as
// the Postgres migrations, for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE email_ingests (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL DEFAULT 'inbound_email',
		message_id TEXT NOT NULL,
		sender TEXT,
		subject TEXT,
		raw_text TEXT,
		raw_html TEXT,
		body_hash TEXT,
		parse_status TEXT NOT NULL DEFAULT 'NEEDS_REVIEW',
		order_id TEXT,
		error TEXT,
		received_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		CONSTRAINT email_ingests_message_id_key UNIQUE (message_id)
	)`,
	`CREATE INDEX email_ingests_body_hash_idx ON email_ingests (body_hash)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		store_code TEXT,
		fulfillment_type TEXT NOT NULL DEFAULT 'UNKNOWN',
		customer_name TEXT,
		customer_email TEXT,
		customer_phone TEXT,
		guest_count INTEGER,
		paper_goods BOOLEAN,
		pickup_time DATETIME,
		delivery_address TEXT,
		notes TEXT,
		subtotal_cents INTEGER NOT NULL DEFAULT 0,
		tax_cents INTEGER NOT NULL DEFAULT 0,
		total_cents INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'PENDING_REVIEW',
		received_at DATETIME,
		accepted_at DATETIME,
		in_progress_at DATETIME,
		ready_at DATETIME,
		completed_at DATETIME,
		canceled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		parent_item_id TEXT REFERENCES order_items(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price_cents INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE order_events (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		message TEXT,
		actor_id TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at DATETIME,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`,
	`CREATE TABLE outbox_dlq (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload_json BLOB NOT NULL,
		error_reason TEXT NOT NULL,
		error_message TEXT,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		failed_at DATETIME,
		created_at DATETIME
	)`,
}

// Open returns an isolated in-memory database with the full schema applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}
