// Package repository contains the PostgreSQL implementations of the
// domain repository interfaces.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error code for unique_violation
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
