// Package repository implements raw-SQL data access for the booking admin
// platform.  This file defines error types reused across repositories so
// that handlers can distinguish failure scenarios without string matching.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource scoped to a different company or user.  Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a role that is still assigned.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an insert would violate the unique email
// index on users or company_users.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeTaken is returned when an insert into booking_details collides
// with the unique index on the uarn column.  The caller redraws the code
// and retries; this is the retry-on-conflict half of the code generator.
var ErrCodeTaken = errors.New("reference code already taken")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), i.e. a unique index rejected the row.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
