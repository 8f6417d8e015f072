package pgutils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeOutOfRange      = "22003"
)

// IsUniqueViolation reports whether err is a unique_violation, optionally on
// the named constraint (empty matches any).
func IsUniqueViolation(err error, constraint string) bool {
	return hasCode(err, codeUniqueViolation, constraint)
}

// IsCheckViolation reports whether err is a check_violation, optionally on
// the named constraint (empty matches any).
func IsCheckViolation(err error, constraint string) bool {
	return hasCode(err, codeCheckViolation, constraint)
}

// IsNumericOutOfRange reports whether err is a numeric_value_out_of_range,
// such as bigint overflow.
func IsNumericOutOfRange(err error) bool {
	return hasCode(err, codeOutOfRange, "")
}

func hasCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}
