package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row does not exist
// - ErrExpired: token past its expiry
// - ErrAlreadyUsed: single-use token already consumed
// - ErrImmutableRecord: storage rejected a mutation of ledger history
// - ErrConcurrency: serialization conflict that exhausted internal retries
// - ErrUnavailable: backing store unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrAlreadyUsed     = errors.New("already used")
	ErrImmutableRecord = errors.New("immutable record")
	ErrConcurrency     = errors.New("concurrency conflict")
	ErrUnavailable     = errors.New("unavailable")
)
