package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	SQLStateUniqueViolation     = "23505"
	SQLStateForeignKeyViolation = "23503"
)

// pgSQLErr covers drivers exposing SQLSTATE without a concrete type.
type pgSQLErr interface{ SQLState() string }

// SQLState extracts the SQLSTATE code from a driver error, or "".
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var se pgSQLErr
	if errors.As(err, &se) {
		return se.SQLState()
	}
	return ""
}

// IsUniqueViolation reports whether err came from a unique/primary key constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if SQLState(err) == SQLStateUniqueViolation {
		return true
	}
	return isDuplicateKey(err)
}

// IsForeignKeyViolation reports a broken reference.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return SQLState(err) == SQLStateForeignKeyViolation
}

// fallback for drivers that only surface a message
func isDuplicateKey(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
