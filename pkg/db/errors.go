package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation. When
// constraintName is provided, only violations of that constraint match.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}
	if constraintName == "" && errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if constraintName != "" && !strings.Contains(msg, constraintName) {
		return sqliteUniqueOnColumn(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// sqliteUniqueOnColumn matches SQLite's "UNIQUE constraint failed: table.column"
// form against Postgres-style "<table>_<column>_key" constraint names.
func sqliteUniqueOnColumn(msg, constraintName string) bool {
	const marker = "UNIQUE constraint failed: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return false
	}
	target := strings.TrimSpace(msg[idx+len(marker):])
	target = strings.ReplaceAll(target, ".", "_") + "_key"
	return target == constraintName
}
