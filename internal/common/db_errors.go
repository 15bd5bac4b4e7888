// File: internal/common/db_errors.go
package common

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pqUniqueViolationCode = "23505"

// IsUniqueViolation reports whether err was caused by a unique constraint.
// Postgres surfaces these as pq errors with code 23505; GORM translates some
// of them to ErrDuplicatedKey depending on the driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolationCode
	}
	return strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
