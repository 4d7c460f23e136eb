package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "email_ingests_message_id_key"}
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pg any constraint", err: fmt.Errorf("create: %w", pgErr), want: true},
		{name: "pg named constraint", err: pgErr, constraint: "email_ingests_message_id_key", want: true},
		{name: "pg other constraint", err: pgErr, constraint: "orders_pkey", want: false},
		{name: "pg other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: email_ingests.message_id"), want: true},
		{name: "sqlite named", err: errors.New("UNIQUE constraint failed: email_ingests.message_id"), constraint: "email_ingests_message_id_key", want: true},
		{name: "sqlite other column", err: errors.New("UNIQUE constraint failed: orders.id"), constraint: "email_ingests_message_id_key", want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
