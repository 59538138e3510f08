// Package repository holds the MySQL-backed data access layer.  Every
// repository returns the sentinel errors below so that services can tell
// a missing row or a uniqueness violation apart from an infrastructure
// failure without inspecting driver errors themselves.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, such as a
// second application by the same account to the same sprint.
var ErrDuplicate = errors.New("duplicate entry")

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows to ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// affectedOrNotFound turns a zero-row UPDATE/DELETE into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
