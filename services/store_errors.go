package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes surfaced by the store.
const (
	pgFKViolation      = "23503"
	pgNotNullViolation = "23502"
	pgPermissionDenied = "42501"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// IsForeignKeyViolation reports whether err is a foreign key constraint
// violation from the store.
func IsForeignKeyViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgFKViolation
}

// IsPermissionDenied reports whether err is a row-level permission error.
func IsPermissionDenied(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgPermissionDenied
}

// IsNotNullViolation reports whether err is a not-null constraint error.
func IsNotNullViolation(err error) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == pgNotNullViolation
}

// translateStoreError logs the full store error detail and wraps known
// constraint codes with a friendlier message. Unknown errors propagate
// wrapped with the operation name.
func translateStoreError(op string, err error) error {
	if pgErr := pgError(err); pgErr != nil {
		log.Printf("%s: store error code=%s message=%s detail=%s hint=%s",
			op, pgErr.Code, pgErr.Message, pgErr.Detail, pgErr.Hint)

		switch pgErr.Code {
		case pgFKViolation:
			return fmt.Errorf("%s: operation violates a record reference; remove dependent records first", op)
		case pgNotNullViolation:
			return fmt.Errorf("%s: a required field is missing (%s)", op, pgErr.ColumnName)
		case pgPermissionDenied:
			return fmt.Errorf("%s: permission denied", op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
