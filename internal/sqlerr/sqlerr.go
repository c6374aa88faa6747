// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into user-friendly messages (e.g., converting
// a "foreign key violation" into a "Bad Request" error).
package sqlerr

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code classifies a database error into application-level categories.
type Code int

const (
	// Other covers every error that is not a recognized constraint failure.
	Other Code = iota
	// UniqueViolation is raised when a unique constraint is broken (SQLSTATE 23505).
	UniqueViolation
	// ForeignKeyViolation is raised when a referenced row does not exist (SQLSTATE 23503).
	ForeignKeyViolation
	// NotNullViolation is raised when a required column is null (SQLSTATE 23502).
	NotNullViolation
	// CheckViolation is raised when a CHECK constraint fails (SQLSTATE 23514).
	CheckViolation
)

// Severity mirrors the Postgres error severity field.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityOther
)

// MapCode maps a Postgres SQLSTATE onto a sqlerr.Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity maps the Postgres severity string onto a sqlerr.Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityOther
	}
}

// Error is the normalized form of a Postgres server error.
//
// It keeps the original SQLSTATE and constraint metadata so callers can
// build precise client-facing messages, and wraps the driver error for
// errors.As/Is chains.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr *pgconn.PgError
}

func (e *Error) Error() string {
	return fmt.Sprintf("sqlerr %s: %s", e.DatabaseCode, e.Message)
}

// Unwrap exposes the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// NotFound tags a "no rows" error with the table it came from so the
// error funnel can name the missing entity in the 404 message.
//
// Repositories call this instead of returning pgx.ErrNoRows directly:
//
//	return sqlerr.NotFound("clients", pgx.ErrNoRows)
func NotFound(table string, err error) error {
	return fmt.Errorf("table:%s: %w", table, err)
}
