package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// SQLSTATE classes the stores care about.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// IsSerializationFailure reports whether err is a transient conflict worth
// retrying inside the owning store.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == codeSerializationFailure ||
			string(pqErr.Code) == codeDeadlockDetected
	}
	return false
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == codeUniqueViolation
	}
	return false
}

// IsImmutableViolation reports whether err came from the ledger immutability
// triggers. The trigger raises with a fixed message prefix; matching on it
// keeps the marker in one place.
func IsImmutableViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return strings.HasPrefix(pqErr.Message, "immutable record")
	}
	return false
}
