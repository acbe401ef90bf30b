package database

import (
	"database/sql"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so query functions can
// run inside or outside a transaction.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, optionally restricted to a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// AcquireYearLock takes a transaction-scoped advisory lock keyed on a
// school year id. Used to serialize matricule sequence generation.
func AcquireYearLock(q DBTX, schoolYearID string) error {
	_, err := q.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, schoolYearID)
	return err
}
